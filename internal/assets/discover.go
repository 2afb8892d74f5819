package assets

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"designlift/internal/model"
)

// Discovery lists the asset URLs found on a page, absolute and grouped by
// role. A URL appears in at most one group.
type Discovery struct {
	Logo        string
	Hero        []string
	Gallery     []string
	Backgrounds []string
	ClientLogos []string
}

// Empty reports whether nothing was discovered.
func (d Discovery) Empty() bool {
	return d.Logo == "" && len(d.Hero) == 0 && len(d.Gallery) == 0 && len(d.Backgrounds) == 0 && len(d.ClientLogos) == 0
}

// Logo selectors in priority order.
var logoSelectors = []string{
	"header img[class*=logo]",
	"header [class*=logo] img",
	"img[class*=logo]",
	"img[id*=logo]",
	"[class*=logo] img",
	"[id*=logo] img",
	"header a[href='/'] img",
	"nav a[href='/'] img",
	"header img",
}

var (
	heroSelector    = "[class*=hero] img, [id*=hero] img, [class*=banner] img, [class*=jumbotron] img"
	heroBgSelector  = "[class*=hero], [id*=hero], [class*=banner]"
	gallerySelector = "[class*=gallery] img, [id*=gallery] img, [class*=portfolio] img, [id*=portfolio] img, [class*=carousel] img, [class*=slider] img, figure img"
	clientSelector  = "[class*=client] img, [id*=client] img, [class*=partner] img, [class*=logos] img, [class*=customer] img, [class*=brands] img, [class*=trusted] img"

	cssURLRe = regexp.MustCompile(`background(?:-image)?\s*:[^;{}]*url\(\s*['"]?([^'")]+)['"]?\s*\)`)
)

// Discover scans html for asset URLs, resolving them against baseURL.
func Discover(html, baseURL string) Discovery {
	var d Discovery
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return d
	}
	base, _ := url.Parse(baseURL)
	if href, ok := doc.Find("base[href]").First().Attr("href"); ok && base != nil {
		if bu, err := base.Parse(href); err == nil {
			base = bu
		}
	}

	seen := map[string]bool{}
	take := func(raw string) string {
		abs := absolute(base, raw)
		if abs == "" || seen[abs] {
			return ""
		}
		seen[abs] = true
		return abs
	}
	collect := func(sel *goquery.Selection, limit int) []string {
		var out []string
		sel.EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if u := take(imageSource(s)); u != "" {
				out = append(out, u)
			}
			return len(out) < limit
		})
		return out
	}

	for _, selector := range logoSelectors {
		if u := take(imageSource(doc.Find(selector).First())); u != "" {
			d.Logo = u
			break
		}
	}
	d.Hero = collect(doc.Find(heroSelector), heroLimit)
	d.ClientLogos = collect(doc.Find(clientSelector), clientLogoLimit)
	d.Gallery = collect(doc.Find(gallerySelector), galleryLimit)

	var bgs []string
	addBg := func(raw string) {
		if len(bgs) >= backgroundLimit {
			return
		}
		if u := take(raw); u != "" {
			bgs = append(bgs, u)
		}
	}
	doc.Find(heroBgSelector).Each(func(_ int, s *goquery.Selection) {
		for _, m := range cssURLRe.FindAllStringSubmatch(s.AttrOr("style", ""), -1) {
			addBg(m[1])
		}
	})
	doc.Find("[style*=url]").Each(func(_ int, s *goquery.Selection) {
		for _, m := range cssURLRe.FindAllStringSubmatch(s.AttrOr("style", ""), -1) {
			addBg(m[1])
		}
	})
	doc.Find("style").Each(func(_ int, s *goquery.Selection) {
		for _, m := range cssURLRe.FindAllStringSubmatch(s.Text(), -1) {
			addBg(m[1])
		}
	})
	d.Backgrounds = bgs
	return d
}

// imageSource picks the best candidate URL of an img element, including
// the lazy-loading attributes common on marketing sites.
func imageSource(s *goquery.Selection) string {
	if s.Length() == 0 {
		return ""
	}
	for _, attr := range []string{"src", "data-src", "data-lazy-src", "data-original"} {
		v := strings.TrimSpace(s.AttrOr(attr, ""))
		if v != "" && !strings.HasPrefix(strings.ToLower(v), "data:") {
			return v
		}
	}
	if srcset := s.AttrOr("srcset", s.AttrOr("data-srcset", "")); srcset != "" {
		first, _, _ := strings.Cut(srcset, ",")
		if fields := strings.Fields(first); len(fields) > 0 {
			return fields[0]
		}
	}
	return ""
}

func absolute(base *url.URL, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(strings.ToLower(raw), "data:") {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return u.String()
}

// Result aggregates ExtractAndDownloadAll.
type Result struct {
	Set        model.AssetSet
	Errors     []model.AssetError
	TotalBytes int64
	Discovery  Discovery
}

// ExtractAndDownloadAll discovers the page's assets and downloads the five
// categories concurrently.
func (p *Pipeline) ExtractAndDownloadAll(ctx context.Context, html, baseURL, projectID string) (*Result, error) {
	if _, err := p.projectDir(projectID); err != nil {
		return nil, err
	}
	d := Discover(html, baseURL)
	res := &Result{Discovery: d}

	var (
		logo                          *model.Asset
		logoB, heroB, galB, bgB, cliB *Batch
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		logo, logoB, err = p.DownloadLogo(gctx, d.Logo, projectID)
		return err
	})
	g.Go(func() (err error) {
		heroB, err = p.DownloadHeroImages(gctx, d.Hero, projectID)
		return err
	})
	g.Go(func() (err error) {
		galB, err = p.DownloadGalleryImages(gctx, d.Gallery, projectID)
		return err
	})
	g.Go(func() (err error) {
		bgB, err = p.DownloadBackgrounds(gctx, d.Backgrounds, projectID)
		return err
	})
	g.Go(func() (err error) {
		cliB, err = p.DownloadClientLogos(gctx, d.ClientLogos, projectID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res.Set.Logo = logo
	res.Set.Hero = heroB.Assets
	res.Set.Gallery = galB.Assets
	res.Set.Backgrounds = bgB.Assets
	res.Set.ClientLogos = cliB.Assets

	all := &Batch{}
	for _, b := range []*Batch{logoB, heroB, galB, bgB, cliB} {
		all.merge(b)
	}
	res.Errors = all.Errors
	res.TotalBytes = all.TotalBytes
	return res, nil
}
