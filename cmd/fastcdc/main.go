// Command fastcdc splits a byte stream into content-defined chunks from
// the command line, wiring the fastcdc library to cobra for command
// parsing, viper for config-file/env merging, zerolog for structured
// logging, and a dedicated Prometheus registry for chunk/byte counters.
package main

import (
	"github.com/rs/zerolog/log"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		log.Fatal().Err(err).Msg("fastcdc failed")
	}
}
