// Command keygen generates the RSA key pair used for JWT signing.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/nextdink/api/pkg/jwt"
)

func main() {
	privateKeyPath := flag.String("private", "./keys/private.pem", "Output path for the private key")
	publicKeyPath := flag.String("public", "./keys/public.pem", "Output path for the public key")
	flag.Parse()

	if err := jwt.GenerateKeyPair(*privateKeyPath, *publicKeyPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating key pair: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %s and %s\n", *privateKeyPath, *publicKeyPath)
}
