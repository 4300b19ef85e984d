package plone

// EntityRef is the short form plone.restapi uses for related items,
// parents, folder contents and search hits.
type EntityRef struct {
	ID          string `json:"@id"`
	Type        string `json:"@type"`
	UID         string `json:"UID"`
	Title       string `json:"title"`
	ReviewState string `json:"review_state"`
}

// Entity is a content item as returned by GET <@id>. Only the fields
// needed to resolve licence models are decoded.
type Entity struct {
	ID          string      `json:"@id"`
	Type        string      `json:"@type"`
	UID         string      `json:"UID"`
	Title       string      `json:"title"`
	ReviewState string      `json:"review_state"`
	Parent      *EntityRef  `json:"parent"`
	Items       []EntityRef `json:"items"`
}

// Kind returns the kind of this entity based on its @type.
func (e *Entity) Kind() Kind {
	return KindOf(e.Type)
}

// FirstChildOfType returns the first item in the entity's folder
// contents with the given portal_type, or nil.
func (e *Entity) FirstChildOfType(portalType string) *EntityRef {
	for i := range e.Items {
		if e.Items[i].Type == portalType {
			return &e.Items[i]
		}
	}
	return nil
}

// WorkflowInfo is the body of GET <@id>/@workflow. We only need the
// title of the current state.
type WorkflowInfo struct {
	State struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	} `json:"state"`
}
