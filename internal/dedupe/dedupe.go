package dedupe

// Package dedupe provides shared singleflight groups used to deduplicate
// concurrent initialization work. Using a centralized singleflight.Group
// ensures only one job runs for a given key while other callers wait for
// the result.

import "golang.org/x/sync/singleflight"

// SeasonGroup deduplicates concurrent season bootstrap calls so two
// requests arriving on a fresh database cannot both create "Season 1".
var SeasonGroup singleflight.Group
