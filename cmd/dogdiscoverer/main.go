// Command dogdiscoverer serves the Dog Discoverer GUI and JSON API, and can
// fetch a single dog from the command line.
package main

import (
	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container
)

func main() {
	Execute()
}
