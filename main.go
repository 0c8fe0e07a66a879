package main

import (
	"os"

	log "github.com/sirupsen/logrus"

	"guildconsole/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.WithError(err).Error("Command failed")
		os.Exit(1)
	}
}
