package server

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	tserrors "github.com/turtlyscope/turtlyscope/pkg/errors"
	"github.com/turtlyscope/turtlyscope/pkg/graph"
	"github.com/turtlyscope/turtlyscope/pkg/graph/community"
	"github.com/turtlyscope/turtlyscope/pkg/pipeline"
)

// formOverhead bounds everything in a request body besides the Turtle text.
const formOverhead = 64 << 10

// visualizeRequest is a decoded POST /api/visualize.
type visualizeRequest struct {
	Text    string
	Format  string
	Options pipeline.Options
}

// decodeVisualize reads the Turtle text and options from a form or a raw
// text/turtle body. Options may also come from the query string.
func decodeVisualize(r *http.Request, base pipeline.Options) (visualizeRequest, error) {
	req := visualizeRequest{Format: pipeline.FormatJSON, Options: base}

	limit := int64(formOverhead)
	if base.MaxInputBytes > 0 {
		limit += int64(base.MaxInputBytes)
	} else {
		limit += 32 << 20
	}
	r.Body = http.MaxBytesReader(nil, r.Body, limit)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "text/turtle", "application/x-turtle", "text/plain":
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return req, bodyError(err, base.MaxInputBytes)
		}
		req.Text = string(data)
	case "multipart/form-data":
		if err := r.ParseMultipartForm(limit); err != nil {
			return req, bodyError(err, base.MaxInputBytes)
		}
		req.Text = r.FormValue("turtle")
	default:
		if err := r.ParseForm(); err != nil {
			return req, bodyError(err, base.MaxInputBytes)
		}
		req.Text = r.PostFormValue("turtle")
	}

	q := r.URL.Query()
	if r.Form != nil {
		q = r.Form
	}
	if err := applyParams(&req, q.Get); err != nil {
		return req, err
	}
	return req, nil
}

// applyParams reads option fields. Unknown values are INVALID_OPTION errors.
func applyParams(req *visualizeRequest, get func(string) string) error {
	opts := &req.Options

	if v := get("format"); v != "" {
		if err := pipeline.ValidateFormat(v); err != nil {
			return err
		}
		req.Format = v
	}
	opts.Formats = []string{req.Format}

	if v := get("include_literals"); v != "" {
		include, err := parseBool(v)
		if err != nil {
			return tserrors.New(tserrors.ErrCodeInvalidOption, "include_literals: %q is not a boolean", v)
		}
		if include {
			opts.Literals = graph.LiteralsAsNodes
		} else {
			opts.Literals = graph.LiteralsHidden
		}
	}
	if v := get("literals"); v != "" {
		mode, err := graph.ParseLiteralMode(v)
		if err != nil {
			return tserrors.Wrap(tserrors.ErrCodeInvalidOption, err, "literals")
		}
		opts.Literals = mode
	}
	if v := get("community_algo"); v != "" {
		algo, err := community.ParseAlgorithm(v)
		if err != nil {
			return tserrors.Wrap(tserrors.ErrCodeInvalidOption, err, "community_algo")
		}
		opts.Community = algo
	}
	if v := get("iterations"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return tserrors.New(tserrors.ErrCodeInvalidOption, "iterations: %q is not a non-negative integer", v)
		}
		opts.Iterations = n
	}
	if v := get("seed"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return tserrors.New(tserrors.ErrCodeInvalidOption, "seed: %q is not a non-negative integer", v)
		}
		opts.Seed = n
	}
	if v := get("base"); v != "" {
		opts.Base = v
	}
	return nil
}

// parseBool accepts HTML checkbox values as well as strconv spellings.
func parseBool(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	return strconv.ParseBool(v)
}

func bodyError(err error, maxInput int) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return &tserrors.SizeLimitError{Kind: tserrors.LimitInput, Limit: maxInput, Actual: int(mbe.Limit) + 1}
	}
	return tserrors.Wrap(tserrors.ErrCodeInvalidInput, err, "read request body")
}
