package entities

import "errors"

var (
	// ErrNotFound is returned by catalog operations on an unknown asset id.
	ErrNotFound = errors.New("asset not found")

	// ErrNotAnImage rejects uploads whose sniffed MIME type is not image/*.
	ErrNotAnImage = errors.New("file is not an image")

	// ErrFileTooLarge rejects uploads above the configured size cap.
	ErrFileTooLarge = errors.New("file exceeds maximum upload size")

	// ErrEmptyFolderName rejects folder operations with a blank name.
	ErrEmptyFolderName = errors.New("folder name must not be empty")
)
