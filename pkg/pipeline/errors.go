package pipeline

import "errors"

// Configuration errors, detected before any browser is launched.
var (
	ErrInvalidOutputDir    = errors.New("invalid outputDir provided")
	ErrInvalidTemplatePath = errors.New("invalid templatePath provided")
	ErrInvalidStylesPath   = errors.New("invalid stylesPath provided")
	ErrInvalidDataFile     = errors.New("invalid dataFile location or file name provided")
)

// Browser phase errors.
var (
	ErrBrowserLaunch = errors.New("failed to launch browser")
	ErrRender        = errors.New("failed to render template")
	ErrRenderTimeout = errors.New("timed out waiting for stable render")
	ErrCapture       = errors.New("failed to capture preview")
	ErrInvalidState  = errors.New("invalid session state")
)
