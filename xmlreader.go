// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package xlcore

import (
	"encoding/xml"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// EventType enumerates the events produced by Reader.Next.
type EventType int

// Event types.
const (
	EventStart EventType = iota
	EventEnd
	EventCharacters
	EventDocument
)

// Reader is a namespace-stripping, bounded pull reader over a single XML
// part. Whitespace-only character runs are suppressed. It wraps
// encoding/xml.Decoder (no third-party XML parser appears anywhere in the
// corpus — every excelize fork decodes with encoding/xml directly), adding a
// CharsetReader so worksheet parts produced by non-UTF-8 tools still parse,
// mirroring upstream excelize's own charset-aware decoder setup.
type Reader struct {
	dec  *xml.Decoder
	name string
	attr map[string]string
	text string
	done bool
}

// NewReader constructs a Reader over r.
func NewReader(r io.Reader) *Reader {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	return &Reader{dec: dec}
}

// Next advances to the next event, suppressing whitespace-only character
// runs. Returns EventDocument once input is exhausted.
func (r *Reader) Next() (EventType, error) {
	if r.done {
		return EventDocument, nil
	}
	for {
		tok, err := r.dec.Token()
		if err == io.EOF {
			r.done = true
			return EventDocument, nil
		}
		if err != nil {
			return 0, wrapErr(KindXMLParse, "malformed XML input", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			r.name = t.Name.Local
			r.attr = make(map[string]string, len(t.Attr))
			for _, a := range t.Attr {
				r.attr[a.Name.Local] = a.Value
			}
			return EventStart, nil
		case xml.EndElement:
			r.name = t.Name.Local
			return EventEnd, nil
		case xml.CharData:
			if strings.TrimSpace(string(t)) == "" {
				continue
			}
			r.text = string(t)
			return EventCharacters, nil
		default:
			continue
		}
	}
}

// Name returns the namespace-stripped local name of the current start or end
// element.
func (r *Reader) Name() string { return r.name }

// Attr returns the value of the named attribute on the current start
// element, ignoring any namespace prefix, and whether it was present.
func (r *Reader) Attr(name string) (string, bool) {
	v, ok := r.attr[name]
	return v, ok
}

// AttrOr returns the named attribute's value, or def if absent.
func (r *Reader) AttrOr(name, def string) string {
	if v, ok := r.attr[name]; ok {
		return v
	}
	return def
}

// Text returns the character data captured by the most recent
// EventCharacters.
func (r *Reader) Text() string { return r.text }

// ReadText reads and concatenates character data until (and consuming) the
// matching end element for the current start element. Useful for leaf
// elements like <v>123</v> or <t>hello</t>.
func (r *Reader) ReadText() (string, error) {
	var sb strings.Builder
	depth := 0
	for {
		ev, err := r.Next()
		if err != nil {
			return "", err
		}
		switch ev {
		case EventCharacters:
			sb.WriteString(r.Text())
		case EventStart:
			depth++
		case EventEnd:
			if depth == 0 {
				return sb.String(), nil
			}
			depth--
		case EventDocument:
			return "", wrapErr(KindXMLParse, "unexpected end of document while reading text", io.ErrUnexpectedEOF)
		}
	}
}

// Skip consumes and discards events until (and including) the matching end
// element for the current start element.
func (r *Reader) Skip() error {
	depth := 0
	for {
		ev, err := r.Next()
		if err != nil {
			return err
		}
		switch ev {
		case EventStart:
			depth++
		case EventEnd:
			if depth == 0 {
				return nil
			}
			depth--
		case EventDocument:
			return wrapErr(KindXMLParse, "unexpected end of document while skipping element", io.ErrUnexpectedEOF)
		}
	}
}

// Close is a no-op provided for symmetry with the writer; closing a Reader
// is idempotent and safe to call any number of times.
func (r *Reader) Close() error { return nil }
