package main

import (
	"context"
	"log"
	"os"

	"cinephile/cmd"
)

func main() {
	if err := cmd.Root().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
