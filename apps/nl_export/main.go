// nl-export exports the licences of Nationallizenzen products from the
// licence portal into csv, xml or json files.
//
// Usage:
//
//	# Create the config file
//	nl-export konfig
//
//	# Export the standard licence model of a product as csv
//	nl-export lzn springer
//
//	# Export active licences of two models as xml into /data/export
//	nl-export lzn --format xml --ablage /data/export --status active \
//	    https://cms.example.org/products/springer 0123456789abcdef0123456789abcdef
//
//	# Print licencees without writing files
//	nl-export liste springer
package main

import (
	"os"
)

func main() {
	os.Exit(execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
