package opml

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/odysseus0/headlines/internal/model"
	"golang.org/x/net/html/charset"
)

type opmlDoc struct {
	XMLName xml.Name `xml:"opml"`
	Version string   `xml:"version,attr,omitempty"`
	Head    opmlHead `xml:"head"`
	Body    opmlBody `xml:"body"`
}

type opmlHead struct {
	Title string `xml:"title,omitempty"`
}

type opmlBody struct {
	Outlines []opmlOutline `xml:"outline"`
}

type opmlOutline struct {
	Text        string        `xml:"text,attr,omitempty"`
	Title       string        `xml:"title,attr,omitempty"`
	Type        string        `xml:"type,attr,omitempty"`
	XMLURL      string        `xml:"xmlUrl,attr,omitempty"`
	XMLURLLower string        `xml:"xmlurl,attr,omitempty"`
	Outlines    []opmlOutline `xml:"outline,omitempty"`
}

// ReadSources loads sources from an OPML document at path (file or http(s) URL).
//
// A top-level outline carrying a feed URL becomes a single-URL source. A
// top-level outline with children becomes one source whose children's feed
// URLs, in document order, are its fallback candidates.
func ReadSources(path string) ([]model.Source, error) {
	r, err := openOPML(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return DecodeSources(r)
}

func DecodeSources(r io.Reader) ([]model.Source, error) {
	var doc opmlDoc
	decoder := xml.NewDecoder(r)
	decoder.Strict = false
	decoder.Entity = xml.HTMLEntity
	decoder.CharsetReader = charset.NewReaderLabel
	if err := decoder.Decode(&doc); err != nil {
		return nil, err
	}

	sources := make([]model.Source, 0, len(doc.Body.Outlines))
	for _, o := range doc.Body.Outlines {
		var urls []string
		if feedURL := o.FeedURL(); feedURL != "" {
			urls = append(urls, feedURL)
		}
		var walk func([]opmlOutline)
		walk = func(outlines []opmlOutline) {
			for _, child := range outlines {
				if feedURL := child.FeedURL(); feedURL != "" {
					urls = append(urls, feedURL)
				}
				walk(child.Outlines)
			}
		}
		walk(o.Outlines)

		urls = uniqueStrings(urls)
		if len(urls) == 0 {
			continue
		}
		sources = append(sources, model.Source{
			Name: fallback(strings.TrimSpace(o.Text), fallback(strings.TrimSpace(o.Title), urls[0])),
			URLs: urls,
		})
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no feed outlines found")
	}
	return sources, nil
}

func openOPML(path string) (io.ReadCloser, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		resp, err := http.Get(path)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetch %s: %s", path, resp.Status)
		}
		return resp.Body, nil
	}
	return os.Open(path)
}

// WriteSources renders sources in the shape ReadSources accepts: one outline
// per source with a child outline per candidate URL.
func WriteSources(w io.Writer, sources []model.Source) error {
	outlines := make([]opmlOutline, 0, len(sources))
	for _, src := range sources {
		children := make([]opmlOutline, 0, len(src.URLs))
		for _, u := range src.URLs {
			children = append(children, opmlOutline{
				Text:   u,
				Type:   "rss",
				XMLURL: u,
			})
		}
		outlines = append(outlines, opmlOutline{
			Text:     src.Name,
			Title:    src.Name,
			Outlines: children,
		})
	}

	doc := opmlDoc{
		Version: "2.0",
		Head: opmlHead{
			Title: "headlines sources",
		},
		Body: opmlBody{
			Outlines: outlines,
		},
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Flush()
}

func fallback(v, fb string) string {
	if strings.TrimSpace(v) == "" {
		return fb
	}
	return v
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func (o opmlOutline) FeedURL() string {
	if v := strings.TrimSpace(o.XMLURL); v != "" {
		return v
	}
	if v := strings.TrimSpace(o.XMLURLLower); v != "" {
		return v
	}
	return ""
}
