package model

// SectionType is the semantic role of a page block.
type SectionType string

const (
	SectionHeader       SectionType = "header"
	SectionHero         SectionType = "hero"
	SectionLogoCloud    SectionType = "logoCloud"
	SectionFeatures     SectionType = "features"
	SectionServices     SectionType = "services"
	SectionAbout        SectionType = "about"
	SectionProcess      SectionType = "process"
	SectionStats        SectionType = "stats"
	SectionTestimonials SectionType = "testimonials"
	SectionPricing      SectionType = "pricing"
	SectionFAQ          SectionType = "faq"
	SectionGallery      SectionType = "gallery"
	SectionTeam         SectionType = "team"
	SectionPortfolio    SectionType = "portfolio"
	SectionClients      SectionType = "clients"
	SectionBenefits     SectionType = "benefits"
	SectionLocation     SectionType = "location"
	SectionCTA          SectionType = "cta"
	SectionForm         SectionType = "form"
	SectionFooter       SectionType = "footer"
	SectionUnknown      SectionType = "unknown"
)

// DefaultVariant is used when no layout sub-style was detected.
const DefaultVariant = "default"

// StyleHints carries the cheap visual signals read off a section's markup.
type StyleHints struct {
	Background     string `json:"background,omitempty"`
	DarkBackground bool   `json:"darkBackground"`
	HasGradient    bool   `json:"hasGradient"`
}

// Section is one semantic block of a page.
type Section struct {
	ID         string      `json:"id"`
	Type       SectionType `json:"sectionType"`
	Order      int         `json:"order"`
	Variant    string      `json:"variant"`
	Content    Content     `json:"content"`
	StyleHints StyleHints  `json:"styleHints"`
}

// Title returns the section's content title, or "" when there is no content.
func (s Section) Title() string {
	if s.Content == nil {
		return ""
	}
	return s.Content.Head().Title
}

// Content is implemented only by the content shapes in this package; each
// section type maps to exactly one of them.
type Content interface {
	Head() Heading
	isContent()
}

// Heading is the title block shared by every content shape.
type Heading struct {
	Title       string `json:"title,omitempty"`
	Subtitle    string `json:"subtitle,omitempty"`
	Description string `json:"description,omitempty"`
}

func (h Heading) Head() Heading { return h }

type Link struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

// CTAStyle is the visual weight of a call-to-action.
type CTAStyle string

const (
	CTAPrimary   CTAStyle = "primary"
	CTASecondary CTAStyle = "secondary"
	CTAOutline   CTAStyle = "outline"
)

type CTA struct {
	Text  string   `json:"text"`
	Href  string   `json:"href"`
	Style CTAStyle `json:"style"`
}

type Item struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Image       string `json:"image,omitempty"`
	Price       string `json:"price,omitempty"`
	Link        string `json:"link,omitempty"`
}

type Stat struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type Testimonial struct {
	Quote   string `json:"quote"`
	Author  string `json:"author,omitempty"`
	Role    string `json:"role,omitempty"`
	Company string `json:"company,omitempty"`
	Avatar  string `json:"avatar,omitempty"`
	Rating  int    `json:"rating,omitempty"`
}

type Plan struct {
	Name        string   `json:"name"`
	Price       string   `json:"price"`
	Period      string   `json:"period,omitempty"`
	Description string   `json:"description,omitempty"`
	Features    []string `json:"features,omitempty"`
	CTA         *CTA     `json:"cta,omitempty"`
	Highlighted bool     `json:"highlighted"`
}

type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type Member struct {
	Name  string `json:"name"`
	Role  string `json:"role,omitempty"`
	Photo string `json:"photo,omitempty"`
}

type Step struct {
	Number      int    `json:"number"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type FormField struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Label    string `json:"label,omitempty"`
	Required bool   `json:"required"`
}

type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

type HeaderContent struct {
	Heading
	Logo       string `json:"logo,omitempty"`
	Navigation []Link `json:"navigation,omitempty"`
	CTAs       []CTA  `json:"ctas,omitempty"`
}

type HeroContent struct {
	Heading
	CTAs   []CTA    `json:"ctas,omitempty"`
	Images []string `json:"images,omitempty"`
}

// ItemsContent backs features, services, benefits and portfolio sections.
type ItemsContent struct {
	Heading
	Items []Item `json:"items"`
	CTAs  []CTA  `json:"ctas,omitempty"`
}

// LogoCloudContent backs logoCloud and clients sections.
type LogoCloudContent struct {
	Heading
	Logos []string `json:"logos"`
}

type AboutContent struct {
	Heading
	Paragraphs []string `json:"paragraphs,omitempty"`
	Images     []string `json:"images,omitempty"`
	Stats      []Stat   `json:"stats,omitempty"`
}

type ProcessContent struct {
	Heading
	Steps []Step `json:"steps"`
}

type StatsContent struct {
	Heading
	Stats []Stat `json:"stats"`
}

type TestimonialsContent struct {
	Heading
	Testimonials []Testimonial `json:"testimonials"`
}

type PricingContent struct {
	Heading
	Plans []Plan `json:"plans"`
}

type FAQContent struct {
	Heading
	FAQs []FAQ `json:"faqs"`
}

type GalleryContent struct {
	Heading
	Images []string `json:"images"`
	Items  []Item   `json:"items,omitempty"`
}

type TeamContent struct {
	Heading
	Members []Member `json:"members"`
}

type LocationContent struct {
	Heading
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	MapURL  string `json:"mapUrl,omitempty"`
}

type CTAContent struct {
	Heading
	CTAs []CTA `json:"ctas"`
}

type FormContent struct {
	Heading
	Fields []FormField `json:"fields"`
	Submit string      `json:"submit,omitempty"`
}

type FooterContent struct {
	Heading
	Logo       string       `json:"logo,omitempty"`
	Navigation []Link       `json:"navigation,omitempty"`
	Social     []SocialLink `json:"social,omitempty"`
	Copyright  string       `json:"copyright,omitempty"`
}

// GenericContent backs unknown sections.
type GenericContent struct {
	Heading
	Paragraphs []string `json:"paragraphs,omitempty"`
	Images     []string `json:"images,omitempty"`
	CTAs       []CTA    `json:"ctas,omitempty"`
}

func (HeaderContent) isContent()       {}
func (HeroContent) isContent()         {}
func (ItemsContent) isContent()        {}
func (LogoCloudContent) isContent()    {}
func (AboutContent) isContent()        {}
func (ProcessContent) isContent()      {}
func (StatsContent) isContent()        {}
func (TestimonialsContent) isContent() {}
func (PricingContent) isContent()      {}
func (FAQContent) isContent()          {}
func (GalleryContent) isContent()      {}
func (TeamContent) isContent()         {}
func (LocationContent) isContent()     {}
func (CTAContent) isContent()          {}
func (FormContent) isContent()         {}
func (FooterContent) isContent()       {}
func (GenericContent) isContent()      {}
