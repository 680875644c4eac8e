package xtract

import (
	"context"
	"fmt"
	"image"
	"strings"
	"sync"
	"unicode"

	"github.com/gen2brain/go-fitz"

	"github.com/hazyhaar/textpipe/ocr"
)

// extractPDF extracts text from a PDF. Pages with a native text layer are
// read directly; image-only pages are rasterized and OCRed concurrently.
// When the native layer exists but does not read as Russian while the
// document is expected to, the whole document is OCRed too and the longer
// assembly wins. Pages join with a blank line, in page order.
func (p *Pipeline) extractPDF(ctx context.Context, data []byte) (string, []string) {
	var notes []string

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		p.logger.Warn("pdf open failed", "error", err)
		return "", append(notes, fmt.Sprintf("pdf open failed: %v", err))
	}
	defer doc.Close()

	n := doc.NumPage()
	if n == 0 {
		return "", append(notes, "pdf has no pages")
	}

	pages := make([]string, n)
	var scanPages []int
	var raw *rawPDF
	rawTried := false

	for i := 0; i < n; i++ {
		text, err := doc.Text(i)
		if err != nil {
			p.logger.Warn("pdf page text failed", "page", i, "error", err)
			text = ""
		}
		if countNonSpace(text) >= p.cfg.MinTextChars {
			pages[i] = text
			continue
		}
		// Sparse dump. A raw content-stream scan catches short but real
		// text layers the threshold would misclassify as scans.
		if !rawTried {
			rawTried = true
			if raw, err = openRawPDF(data); err != nil {
				p.logger.Info("pdf raw scan unavailable", "error", err)
			}
		}
		if raw.pageHasText(i+1) && countNonSpace(text) > 0 {
			pages[i] = text
			continue
		}
		scanPages = append(scanPages, i)
	}

	if len(scanPages) > 0 {
		if p.cfg.Engine.Available() {
			p.logger.Info("pdf ocr pass", "pages", len(scanPages), "total", n)
			angle := p.documentAngle(ctx, doc)
			notes = append(notes, p.ocrPages(ctx, doc, scanPages, angle, pages)...)
		} else {
			p.logger.Info("pdf scan pages skipped, ocr unavailable", "pages", len(scanPages))
			notes = append(notes, fmt.Sprintf("%d image-only pages skipped: ocr unavailable", len(scanPages)))
			if raw.hasImages() {
				notes = append(notes, "document contains image streams")
			}
		}
	}

	text := strings.TrimSpace(strings.Join(nonEmpty(pages), "\n\n"))

	// A present but garbled text layer (wrong encoding, vector junk) is
	// worse than no layer. When the document should read as Russian and
	// does not, OCR everything and keep whichever assembly carries more.
	if text != "" && len(scanPages) < n && p.cfg.Engine.Available() &&
		!looksLikeRussian(text, p.cfg.CyrillicThreshold) {
		p.logger.Info("pdf text layer fails language check, ocr retry", "chars", len(text))
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}
		redone := make([]string, n)
		angle := p.documentAngle(ctx, doc)
		retryNotes := p.ocrPages(ctx, doc, all, angle, redone)
		if ocrText := strings.TrimSpace(strings.Join(nonEmpty(redone), "\n\n")); len(ocrText) > len(text) {
			notes = append(notes, "text layer replaced by ocr: failed language check")
			notes = append(notes, retryNotes...)
			text = ocrText
		}
	}

	return text, notes
}

// documentAngle detects the corrective rotation once, from the first page.
// Office scanners feed pages one way; a per-page pass would quadruple the
// OSD cost for the same answer.
func (p *Pipeline) documentAngle(ctx context.Context, doc *fitz.Document) int {
	img, err := p.rasterizePage(doc, 0)
	if err != nil {
		p.logger.Warn("osd raster failed", "error", err)
		return 0
	}
	o := p.detector.Detect(ctx, img)
	if o.Angle != 0 {
		p.logger.Info("document rotation", "angle", o.Angle, "method", o.Method, "reason", o.Reason)
	}
	return o.Angle
}

type ocrJob struct {
	page int
	img  image.Image
}

// ocrPages rasterizes and recognizes the given pages on a bounded worker
// pool, writing results into out by page index. A failed page stays empty
// and contributes a note. Rasterization shares one document handle, so
// pages render sequentially on the dispatching goroutine and only
// recognition fans out.
func (p *Pipeline) ocrPages(ctx context.Context, doc *fitz.Document, pageNrs []int, angle int, out []string) []string {
	workers := p.cfg.OCRWorkers
	if workers > len(pageNrs) {
		workers = len(pageNrs)
	}

	jobs := make(chan ocrJob)
	errs := make([]string, len(out))
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				img := j.img
				if angle != 0 {
					img = ocr.Rotate(img, angle)
				}
				text, err := p.cfg.Engine.Recognize(ctx, img, ocr.RecognizeOptions{
					Langs:       p.langs,
					PageSegMode: ocr.PSMSingleBlock,
				})
				if err != nil {
					p.logger.Warn("page ocr failed", "page", j.page, "error", err)
					errs[j.page] = fmt.Sprintf("page %d ocr failed: %v", j.page+1, err)
					continue
				}
				out[j.page] = text
			}
		}()
	}

	for _, page := range pageNrs {
		if ctx.Err() != nil {
			break
		}
		img, err := p.rasterizePage(doc, page)
		if err != nil {
			p.logger.Warn("page raster failed", "page", page, "error", err)
			errs[page] = fmt.Sprintf("page %d raster failed: %v", page+1, err)
			continue
		}
		jobs <- ocrJob{page: page, img: img}
	}
	close(jobs)
	wg.Wait()

	var notes []string
	for _, e := range errs {
		if e != "" {
			notes = append(notes, e)
		}
	}
	return notes
}

func countNonSpace(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}

func nonEmpty(pages []string) []string {
	out := make([]string, 0, len(pages))
	for _, pg := range pages {
		if t := strings.TrimSpace(pg); t != "" {
			out = append(out, t)
		}
	}
	return out
}
