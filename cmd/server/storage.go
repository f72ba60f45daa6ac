package main

import (
	"github.com/rs/zerolog/log"

	"github.com/bitquan/Stayboost-sub003/internal/storage"
)

// InitStorage selects and returns the configured backup storage backend
func InitStorage(env Environment) storage.Storage {
	if env.UseSpaces {
		spacesStorage, err := storage.NewSpacesStorage(
			env.SpacesEndpoint,
			env.SpacesRegion,
			env.SpacesBucket,
			env.SpacesAccessKey,
			env.SpacesSecretKey,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize Spaces storage")
		}
		log.Info().Str("bucket", env.SpacesBucket).Msg("using Spaces backup storage")
		return spacesStorage
	}

	local := storage.NewLocalStorage("./backups")
	log.Info().Msg("using local backup storage in ./backups")
	return local
}
