package inference

import "errors"

var (
	// ErrUnsupportedContentType marks a declared content type outside the
	// accepted image formats. Maps to 400 at the HTTP layer.
	ErrUnsupportedContentType = errors.New("unsupported content type")
	// ErrImageDecode marks corrupt or truncated upload bytes. Maps to 500;
	// the declared content type already passed validation.
	ErrImageDecode = errors.New("image decode failed")
	// ErrInference marks a failure during the model forward pass or an
	// implausible model output. Maps to 500.
	ErrInference = errors.New("inference failed")
)
