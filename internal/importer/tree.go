package importer

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrNotBookmarkFile is returned when the input contains no bookmark list.
var ErrNotBookmarkFile = errors.New("not a bookmark file: no <DL> list found")

// Folder is a heading together with the list that follows it.
// The root folder has no name and holds top-level entries.
type Folder struct {
	Name    string
	Links   []Link
	Folders []*Folder
}

// Link is a single <A> entry.
type Link struct {
	Title   string
	Href    string
	AddDate string
	Icon    string
}

// AllLinks returns the folder's links followed by those of its subfolders,
// depth first, in document order.
func (f *Folder) AllLinks() []Link {
	links := append([]Link{}, f.Links...)
	for _, sub := range f.Folders {
		links = append(links, sub.AllLinks()...)
	}
	return links
}

// Walk calls fn for every folder below f (not f itself), depth first.
func (f *Folder) Walk(fn func(*Folder)) {
	for _, sub := range f.Folders {
		fn(sub)
		sub.Walk(fn)
	}
}

// frame is one open <DL>. owner is the folder whose entries it lists.
type frame struct {
	owner *Folder
}

// ParseTree tokenizes Netscape bookmark markup into a folder tree.
//
// A <H3> names the folder whose contents are the next <DL>. Links are
// attached to the folder of the innermost open <DL>.
func ParseTree(r io.Reader) (*Folder, error) {
	root := &Folder{}
	stack := []frame{{owner: root}}
	sawList := false

	var pending *Folder // heading waiting for its <DL>

	current := func() *Folder {
		return stack[len(stack)-1].owner
	}
	// A heading not followed by a list is an empty folder.
	flushPending := func() {
		if pending != nil {
			current().Folders = append(current().Folders, pending)
			pending = nil
		}
	}

	z := html.NewTokenizer(r)
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return nil, err
			}
			flushPending()
			if !sawList {
				return nil, ErrNotBookmarkFile
			}
			return root, nil

		case html.StartTagToken:
			tok := z.Token()
			switch tok.DataAtom {
			case atom.H3:
				flushPending()
				pending = &Folder{Name: readText(z, atom.H3)}

			case atom.Dl:
				sawList = true
				owner := current()
				if pending != nil {
					owner.Folders = append(owner.Folders, pending)
					owner = pending
					pending = nil
				}
				stack = append(stack, frame{owner: owner})

			case atom.A:
				flushPending()
				link := Link{
					Href:    strings.TrimSpace(attr(tok, "href")),
					AddDate: attr(tok, "add_date"),
					Icon:    attr(tok, "icon"),
				}
				link.Title = readText(z, atom.A)
				current().Links = append(current().Links, link)
			}

		case html.EndTagToken:
			tok := z.Token()
			if tok.DataAtom == atom.Dl {
				flushPending()
				if len(stack) > 1 {
					stack = stack[:len(stack)-1]
				}
			}
		}
	}
}

// readText collects text up to the closing tag of the given element.
func readText(z *html.Tokenizer, end atom.Atom) string {
	var text strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(text.String())
		case html.TextToken:
			text.Write(z.Text())
		case html.EndTagToken:
			if z.Token().DataAtom == end {
				return strings.TrimSpace(text.String())
			}
		}
	}
}

// attr returns the value of an attribute. The tokenizer lowercases keys.
func attr(tok html.Token, key string) string {
	for _, a := range tok.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
