package main

import (
	log "github.com/sirupsen/logrus"

	"github.com/aurora-store/go-aurora/cmd/aurora/cmd"
)

func main() {

	log.SetFormatter(&log.TextFormatter{ForceColors: true})

	cmd.Execute()
}
