package main

import (
	"fmt"
	"os"
	"path/filepath"

	"ledgersort/cmd/categorize"
	"ledgersort/cmd/importcmd"
	"ledgersort/cmd/root"
	"ledgersort/cmd/train"

	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables before configuration is read
	loadEnvSilently()

	root.Init()

	root.Cmd.AddCommand(importcmd.Cmd)
	root.Cmd.AddCommand(categorize.Cmd)
	root.Cmd.AddCommand(train.Cmd)
}

// loadEnvSilently loads environment variables without logging anything
func loadEnvSilently() {
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return
		}
	}
	_ = godotenv.Load(envFile)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
