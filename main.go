package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/remiehneppo/research-assistant/cmd"
)

func main() {
	cmd.Execute()
}

func init() {
	// .env is a local development convenience; production supplies real
	// environment variables.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded:", err)
	}
}
