package model

// Package model defines the core entities of the download server: jobs and
// their lifecycle statuses, validated download requests, and extracted video
// metadata. It has no dependencies on the process or transport layers.
