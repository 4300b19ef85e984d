package constants

import "time"

// Plone portal types the exporter knows about.
const (
	TypeLicence              = "NLLicence"
	TypeOptInLicenceModel    = "NLOptInLicenceModel"
	TypeProduct              = "NLProduct"
	TypeStandardLicenceModel = "NLStandardLicenceModel"
)

// ResolvableTypes are the portal types an input identifier may point to.
var ResolvableTypes = []string{
	TypeProduct,
	TypeStandardLicenceModel,
	TypeOptInLicenceModel,
}

// Output formats accepted by the lzn command.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatXML  = "xml"
)

var Formats = []string{
	FormatCSV,
	FormatXML,
	FormatJSON,
}

const (
	AppName               = "nl-export"
	ConfigFileName        = "nl-export.conf"
	DefaultNSQTopic       = "nl_export"
	DefaultRedisTTL       = 24 * time.Hour
	DefaultRequestTimeout = 2 * time.Minute
	DefaultS3Region       = "us-east-1"
	DefaultWorkers        = 4
	EnvConfigFile         = "NL_EXPORT_CONFIG"
	EnvPrefix             = "NL_EXPORT"
	ExpandRelations       = "completerelations"
	NLNamespace           = "http://www.nationallizenzen.de/ns/nl"
	PidFileName           = ".nl-export.pid"
	SortOnTitle           = "sortable_title"
)

// Exit codes
const (
	// ExitOK means the program completed successfully.
	ExitOK = 0
	// ExitRuntimeErr means the program did not complete successfully,
	// or at least one identifier could not be exported. The cause may
	// be outside the program, such as a network error or rejected
	// credentials.
	ExitRuntimeErr = 1
	// ExitUserErr means the user supplied invalid options or arguments,
	// or the configuration file is missing or incomplete.
	ExitUserErr = 3
	// ExitNoOp means the user requested help or version info.
	ExitNoOp = 100
)
