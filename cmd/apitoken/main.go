package main

import (
	tokenvalidator "apptreminder/internal/implementations/token_validator"
	"flag"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

// Prints the API_TOKEN_HASH value for a bearer token.
func main() {
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: apitoken [-cost N] TOKEN\n")
		os.Exit(2)
	}

	hash, err := tokenvalidator.Hash(flag.Arg(0), *cost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
