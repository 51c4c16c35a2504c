package main

import (
	"github.com/go-errors/errors"
	"github.com/rs/zerolog/log"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if stackErr, ok := err.(*errors.Error); ok {
			log.Debug().Msg(stackErr.ErrorStack())
		}
		log.Error().Err(err).Msg("ctrprep failed")
		os.Exit(1)
	}
}
