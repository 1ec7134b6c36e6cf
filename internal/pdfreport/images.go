package pdfreport

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/dshills/auditkit/internal/schema"
)

const (
	logoWidth = 30.0
	// photoHeightShare caps a photo at this fraction of the content height.
	photoHeightShare = 0.65
)

var imageTypes = map[string]string{"jpeg": "JPG", "png": "PNG", "gif": "GIF"}

// registered is an image accepted into the document.
type registered struct {
	name string
	opts fpdf.ImageOptions
	w, h float64 // natural size in mm
}

// register decodes data and adds it to the document. It returns nil for
// anything that is not a readable JPEG, PNG or GIF.
func (b *builder) register(data []byte) *registered {
	if len(data) == 0 {
		return nil
	}
	_, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	typ, ok := imageTypes[format]
	if !ok {
		return nil
	}
	b.images++
	img := &registered{
		name: fmt.Sprintf("img-%d", b.images),
		opts: fpdf.ImageOptions{ImageType: typ},
	}
	info := b.pdf.RegisterImageOptionsReader(img.name, img.opts, bytes.NewReader(data))
	if b.pdf.Err() || info == nil {
		b.pdf.ClearError()
		return nil
	}
	img.w, img.h = info.Extent()
	if img.w <= 0 || img.h <= 0 {
		return nil
	}
	return img
}

func (b *builder) logo(a *schema.Attachment) {
	if a == nil {
		return
	}
	img := b.register(a.Data)
	if img == nil {
		b.res.Skipped = append(b.res.Skipped, a.Name)
		b.warnf("logo %q is not a readable image, omitted", a.Name)
		return
	}
	h := logoWidth * img.h / img.w
	y := b.pdf.GetY()
	b.pdf.ImageOptions(img.name, b.margins.left, y, logoWidth, h, false, img.opts, 0, "")
	b.pdf.SetXY(b.margins.left, y+h+2)
}

type photo struct {
	caption string
	img     *registered
}

// photos emits the photo appendix for image attachments, in record order.
// Attachments that fail to decode are reported and left out.
func (b *builder) photos(records []schema.Record) {
	var list []photo
	for _, r := range records {
		for _, f := range r.Files {
			if !f.IsImage() {
				continue
			}
			img := b.register(f.Data)
			if img == nil {
				b.res.Skipped = append(b.res.Skipped, f.Name)
				b.warnf("attachment %q (%s #%d) is not a readable image, omitted", f.Name, r.Section, r.Index)
				continue
			}
			list = append(list, photo{caption: fmt.Sprintf("%s — #%d — %s", r.Section, r.Index, f.Name), img: img})
		}
	}
	if len(list) == 0 {
		return
	}

	b.addPage(Portrait, PartPhotoAppendix)
	b.heading("Appendice fotografica", h1Size)
	b.text("Selezione immagini caricate a supporto dell'audit.", smallSize, "", colorGrey)
	b.space(2)

	maxW := b.contentWidth()
	maxH := b.contentHeight() * photoHeightShare
	captionH := lineHeight(smallSize)
	for _, p := range list {
		scale := math.Min(1, math.Min(maxW/p.img.w, maxH/p.img.h))
		w, h := p.img.w*scale, p.img.h*scale
		b.ensure(captionH + h + 6)
		b.text(p.caption, smallSize, "", colorGrey)
		y := b.pdf.GetY() + 1
		b.pdf.ImageOptions(p.img.name, b.margins.left, y, w, h, false, p.img.opts, 0, "")
		b.pdf.SetXY(b.margins.left, y+h+5)
		b.res.Photos = append(b.res.Photos, p.caption)
	}
}
