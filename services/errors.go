package services

import (
	"context"
	"errors"
)

var (
	// ErrProblemFetching covers transport failures, non-2xx statuses and
	// undecodable payloads.
	ErrProblemFetching = errors.New("Problem in fetching the movies")
	// ErrMovieNotFound is returned when OMDb answers Response:"False".
	ErrMovieNotFound = errors.New("Movie not found!")
	// ErrSuperseded means a newer request took over before this one finished;
	// its result was discarded.
	ErrSuperseded = errors.New("request superseded")

	ErrNoDetail       = errors.New("no movie detail loaded")
	ErrRatingRequired = errors.New("rate the movie before adding it")
	ErrInvalidRating  = errors.New("rating must be between 1 and 10")
	ErrAlreadyWatched = errors.New("movie is already in the watched list")
	ErrUnknownPolicy  = errors.New("unknown duplicate policy")
)

// UserMessage maps a fetch error to the inline message shown to the user.
// Cancellations map to "" since they are never user-visible.
func UserMessage(err error) string {
	switch {
	case err == nil, IsCanceled(err), errors.Is(err, ErrSuperseded):
		return ""
	case errors.Is(err, ErrMovieNotFound):
		return ErrMovieNotFound.Error()
	case errors.Is(err, ErrRatingRequired), errors.Is(err, ErrInvalidRating),
		errors.Is(err, ErrAlreadyWatched), errors.Is(err, ErrNoDetail):
		return err.Error()
	default:
		return ErrProblemFetching.Error()
	}
}

// IsCanceled reports whether err is an abort signal rather than a fault.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
