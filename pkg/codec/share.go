package codec

import (
	"encoding/base64"
	"net/url"

	"github.com/printforge/gangsheet/pkg/errors"
	"github.com/printforge/gangsheet/pkg/project"
)

// ShareParam is the query parameter carrying a shared sheet payload.
const ShareParam = "sheet"

// EncodeShare packs the project into a URL-safe token: the payload JSON in
// unpadded base64.
func EncodeShare(p *project.Project) (string, error) {
	text, err := Encode(p)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString([]byte(text)), nil
}

// DecodeShare unpacks a share token back into a project.
func DecodeShare(token string) (*project.Project, error) {
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSharePayloadInvalid, err, "share token is not valid base64")
	}
	p, err := Decode(string(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSharePayloadInvalid, err, "share token does not decode to a sheet")
	}
	return p, nil
}

// ShareURL builds a shareable link for the project on top of base.
func ShareURL(base string, p *project.Project) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid base URL %q", base)
	}
	token, err := EncodeShare(p)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set(ShareParam, token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// FromURL extracts a shared project from a URL. A URL without the share
// parameter returns (nil, nil); a malformed token returns an error so the
// caller can warn and keep its current state.
func FromURL(rawURL string) (*project.Project, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSharePayloadInvalid, err, "invalid share URL")
	}
	token := u.Query().Get(ShareParam)
	if token == "" {
		return nil, nil
	}
	return DecodeShare(token)
}
