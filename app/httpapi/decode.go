package httpapi

import (
	"bytes"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/AntonStoeckl/library-circulation-api/app/shared/core"
)

const (
	maxBodyBytes     = 1 << 20
	MsgMalformedBody = "The request body could not be parsed."
)

// flexInt accepts a JSON number or a numeric string, as form posts deliver every value as text.
type flexInt int64

func (n *flexInt) UnmarshalJSON(data []byte) error {
	raw := string(bytes.TrimSpace(data))
	if raw == "null" {
		*n = 0
		return nil
	}

	if strings.HasPrefix(raw, `"`) {
		unquoted, err := strconv.Unquote(raw)
		if err != nil {
			return err
		}

		raw = unquoted
	}

	v, err := parseFlexInt(raw)
	if err != nil {
		return err
	}

	*n = flexInt(v)

	return nil
}

func parseFlexInt(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}

	return strconv.ParseInt(raw, 10, 64)
}

// stringList accepts a JSON array of strings or a single string.
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		*l = nil
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = stringList{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}

	*l = many

	return nil
}

type formDecodable interface {
	fromForm(form url.Values) error
}

type circulationRequest struct {
	UserID flexInt    `json:"user_id"`
	Titles stringList `json:"titles"`
}

func (req *circulationRequest) fromForm(form url.Values) error {
	userID, err := parseFlexInt(form.Get("user_id"))
	if err != nil {
		return err
	}

	req.UserID = flexInt(userID)
	req.Titles = append(form["titles"], form["titles[]"]...)

	return nil
}

type addBookRequest struct {
	Title       string  `json:"title"`
	ISBN        string  `json:"isbn"`
	NrCopies    flexInt `json:"nr_copies"`
	AuthorFirst string  `json:"author_first"`
	AuthorLast  string  `json:"author_last"`
}

func (req *addBookRequest) fromForm(form url.Values) error {
	nrCopies, err := parseFlexInt(form.Get("nr_copies"))
	if err != nil {
		return err
	}

	req.Title = form.Get("title")
	req.ISBN = form.Get("isbn")
	req.NrCopies = flexInt(nrCopies)
	req.AuthorFirst = form.Get("author_first")
	req.AuthorLast = form.Get("author_last")

	return nil
}

type addUserRequest struct {
	First string `json:"first"`
	Last  string `json:"last"`
	Email string `json:"email"`
	Pass  string `json:"pass"`
}

func (req *addUserRequest) fromForm(form url.Values) error {
	req.First = form.Get("first")
	req.Last = form.Get("last")
	req.Email = form.Get("email")
	req.Pass = form.Get("pass")

	return nil
}

// decodeBody fills dst from a URL-encoded form or, for any other content type, from JSON.
// An empty body leaves dst untouched so validation reports the missing fields.
func decodeBody(w http.ResponseWriter, r *http.Request, dst formDecodable) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "application/x-www-form-urlencoded" || mediaType == "multipart/form-data" {
		parse := r.ParseForm
		if mediaType == "multipart/form-data" {
			parse = func() error { return r.ParseMultipartForm(maxBodyBytes) }
		}

		if err := parse(); err != nil {
			return core.InvalidValue(MsgMalformedBody)
		}

		if err := dst.fromForm(r.PostForm); err != nil {
			return core.InvalidValue(MsgMalformedBody)
		}

		return nil
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return core.InvalidValue(MsgMalformedBody)
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	if err = json.Unmarshal(body, dst); err != nil {
		return core.InvalidValue(MsgMalformedBody)
	}

	return nil
}
