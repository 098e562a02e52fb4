package types

import "github.com/m-mizutani/goerr/v2"

// Error tags classify a publish failure by the stage it happened in, so a
// report can tell a checkout failure on one platform apart from an upload
// failure on another.
var (
	ErrTagCheckout = goerr.NewTag("checkout")
	ErrTagBuild    = goerr.NewTag("build")
	ErrTagUpload   = goerr.NewTag("upload")
)
