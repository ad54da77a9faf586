package certificates

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/jung-kurt/gofpdf/v2"
	"golang.org/x/net/html"
)

// Renderer turns a complete HTML document into PDF bytes.
type Renderer interface {
	Render(ctx context.Context, doc string) ([]byte, error)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(ctx context.Context, doc string) ([]byte, error)

func (f RendererFunc) Render(ctx context.Context, doc string) ([]byte, error) {
	return f(ctx, doc)
}

// GofpdfRenderer lays out the small HTML subset the certificate templates
// use: headings, paragraphs and divs (class "center", "title", "field",
// "signature"), bold and italic runs, line breaks and data-URI images.
// Everything else is rendered as plain text; head, style and script content
// is dropped.
type GofpdfRenderer struct {
	PageSize string // gofpdf size name, A4 by default
	Frame    bool   // draw a border around the page
}

func NewGofpdfRenderer() *GofpdfRenderer {
	return &GofpdfRenderer{PageSize: "A4", Frame: true}
}

const (
	fontFamily = "Times"
	bodySize   = 12.0
	lineHeight = 7.0
	marginMM   = 22.0
)

func (r *GofpdfRenderer) Render(ctx context.Context, doc string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	size := r.PageSize
	if size == "" {
		size = "A4"
	}
	pdf := gofpdf.New("P", "mm", size, "")
	pdf.SetMargins(marginMM, marginMM, marginMM)
	pdf.SetAutoPageBreak(true, marginMM)
	pdf.AddPage()
	if r.Frame {
		w, h := pdf.GetPageSize()
		pdf.SetLineWidth(0.8)
		pdf.Rect(12, 12, w-24, h-24, "D")
	}

	lw := &layout{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	z := html.NewTokenizer(strings.NewReader(doc))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if errors.Is(z.Err(), io.EOF) {
				break
			}
			return nil, fmt.Errorf("parse certificate html: %w", z.Err())
		}
		tok := z.Token()
		switch tt {
		case html.StartTagToken:
			lw.open(tok)
		case html.SelfClosingTagToken:
			lw.open(tok)
			lw.close(tok.Data)
		case html.EndTagToken:
			lw.close(tok.Data)
		case html.TextToken:
			lw.text(tok.Data)
		}
		if pdf.Err() {
			return nil, fmt.Errorf("render certificate: %w", pdf.Error())
		}
	}
	lw.flush()

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write certificate pdf: %w", err)
	}
	return buf.Bytes(), nil
}

type run struct {
	text  string
	style string // "", "B", "I" or "BI"
}

type block struct {
	tag   string
	align string
	size  float64
	bold  bool
	space float64 // gap after the block
}

type layout struct {
	pdf    *gofpdf.Fpdf
	tr     func(string) string
	blocks []block
	runs   []run
	bold   int
	italic int
	skip   int // depth inside head/style/script/title
	images int
}

func hasClass(tok html.Token, class string) bool {
	for _, a := range tok.Attr {
		if a.Key == "class" {
			for _, c := range strings.Fields(a.Val) {
				if c == class {
					return true
				}
			}
		}
	}
	return false
}

func attr(tok html.Token, key string) string {
	for _, a := range tok.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func (l *layout) current() block {
	if len(l.blocks) == 0 {
		return block{align: "J", size: bodySize, space: 2}
	}
	return l.blocks[len(l.blocks)-1]
}

func (l *layout) open(tok html.Token) {
	switch tok.Data {
	case "head", "style", "script", "title":
		l.skip++
		return
	}
	if l.skip > 0 {
		return
	}

	switch tok.Data {
	case "b", "strong":
		l.bold++
	case "i", "em":
		l.italic++
	case "br":
		l.flush()
	case "img":
		l.flush()
		l.image(attr(tok, "src"))
	case "p", "div", "h1", "h2", "h3", "li":
		l.flush()
		b := l.current()
		b.tag = tok.Data
		b.space = 2
		switch tok.Data {
		case "h1":
			b.size, b.bold, b.align, b.space = 22, true, "C", 6
		case "h2":
			b.size, b.bold, b.align, b.space = 16, true, "C", 4
		case "h3":
			b.size, b.bold, b.align = 13, true, "C"
		}
		switch {
		case hasClass(tok, "title"):
			b.size, b.bold, b.align, b.space = 24, true, "C", 8
		case hasClass(tok, "center"):
			b.align = "C"
		case hasClass(tok, "field"):
			b.align = "L"
		case hasClass(tok, "signature"):
			b.align = "C"
			l.pdf.Ln(18)
		}
		l.blocks = append(l.blocks, b)
	}
}

func (l *layout) close(tag string) {
	switch tag {
	case "head", "style", "script", "title":
		if l.skip > 0 {
			l.skip--
		}
		return
	}
	if l.skip > 0 {
		return
	}

	switch tag {
	case "b", "strong":
		if l.bold > 0 {
			l.bold--
		}
	case "i", "em":
		if l.italic > 0 {
			l.italic--
		}
	case "p", "div", "h1", "h2", "h3", "li":
		l.flush()
		if n := len(l.blocks); n > 0 {
			l.pdf.Ln(l.blocks[n-1].space)
			l.blocks = l.blocks[:n-1]
		}
	}
}

func (l *layout) text(s string) {
	if l.skip > 0 {
		return
	}
	s = collapseSpace(s)
	if s == " " && len(l.runs) == 0 {
		return
	}
	l.runs = append(l.runs, run{text: s, style: l.style()})
}

// collapseSpace folds whitespace runs into one space, keeping a space at
// either edge so adjacent inline runs stay separated.
func collapseSpace(s string) string {
	var b strings.Builder
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space {
			b.WriteByte(' ')
			space = false
		}
		b.WriteRune(r)
	}
	if space {
		b.WriteByte(' ')
	}
	return b.String()
}

func (l *layout) style() string {
	s := ""
	if l.bold > 0 || l.current().bold {
		s += "B"
	}
	if l.italic > 0 {
		s += "I"
	}
	return s
}

// flush writes the pending runs as one paragraph in the current block style.
func (l *layout) flush() {
	runs := l.runs
	l.runs = nil
	if len(runs) == 0 {
		return
	}
	b := l.current()
	pdf := l.pdf

	uniform := true
	var plain strings.Builder
	for _, r := range runs {
		if r.style != runs[0].style {
			uniform = false
		}
		plain.WriteString(r.text)
	}
	text := strings.TrimSpace(plain.String())
	if text == "" {
		return
	}

	align := b.align
	if align == "" {
		align = "J"
	}
	lh := lineHeight * b.size / bodySize

	if uniform {
		pdf.SetFont(fontFamily, runs[0].style, b.size)
		pdf.MultiCell(0, lh, l.tr(text), "", align, false)
		return
	}

	// Mixed styles flow left to right; a centered line that fits is offset.
	left, _, right, _ := pdf.GetMargins()
	pageW, _ := pdf.GetPageSize()
	avail := pageW - left - right
	if align == "C" {
		total := 0.0
		for _, r := range runs {
			pdf.SetFont(fontFamily, r.style, b.size)
			total += pdf.GetStringWidth(l.tr(r.text))
		}
		if total < avail {
			pdf.SetX(left + (avail-total)/2)
		}
	}
	for i, r := range runs {
		t := r.text
		if i == 0 {
			t = strings.TrimLeft(t, " ")
		}
		if i == len(runs)-1 {
			t = strings.TrimRight(t, " ")
		}
		pdf.SetFont(fontFamily, r.style, b.size)
		pdf.Write(lh, l.tr(t))
	}
	pdf.Ln(lh)
}

// image draws a centered data-URI image. Anything else is ignored.
func (l *layout) image(src string) {
	const prefix = "data:"
	if !strings.HasPrefix(src, prefix) {
		return
	}
	meta, payload, ok := strings.Cut(strings.TrimPrefix(src, prefix), ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return
	}
	var imageType string
	switch strings.TrimSuffix(meta, ";base64") {
	case "image/png":
		imageType = "PNG"
	case "image/jpeg", "image/jpg":
		imageType = "JPG"
	case "image/gif":
		imageType = "GIF"
	default:
		return
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return
	}

	l.images++
	name := fmt.Sprintf("img%d", l.images)
	opts := gofpdf.ImageOptions{ImageType: imageType, ReadDpi: true}
	l.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(raw))
	if l.pdf.Err() {
		// A broken logo must not fail the certificate.
		l.pdf.ClearError()
		return
	}
	const size = 24.0
	pageW, _ := l.pdf.GetPageSize()
	l.pdf.ImageOptions(name, (pageW-size)/2, l.pdf.GetY(), size, size, true, opts, 0, "")
	l.pdf.Ln(2)
}
