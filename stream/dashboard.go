package stream

// HighlightKind tags a highlight banner.
type HighlightKind string

const (
	KindDemand HighlightKind = "demand"
	KindRating HighlightKind = "rating"
	KindTrend  HighlightKind = "trend"
	KindAlert  HighlightKind = "alert"
)

// A Highlight is one banner in the rotating carousel. ID is set on banners raised
// by notifications.
type Highlight struct {
	ID    string        `json:"id,omitempty"`
	Kind  HighlightKind `json:"kind"`
	Icon  string        `json:"icon"`
	Label string        `json:"label"`
	Value string        `json:"value"`
}

// ServiceMetric is the workload of one municipal service, in percent of capacity.
type ServiceMetric struct {
	Label           string  `json:"label"`
	Days            float64 `json:"days"`
	TotalPercentage float64 `json:"totalPercentage"`
	Operational     float64 `json:"operational"`
	Fiscalization   float64 `json:"fiscalization"`
	Administrative  float64 `json:"administrative"`
}

// DeptEfficiency is one row of the department ranking.
type DeptEfficiency struct {
	ID            int     `json:"id"`
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	SubName       string  `json:"subName"`
	Efficiency    float64 `json:"efficiency"`
	Solicitations string  `json:"solicitations"`
	Colour        Colour  `json:"colour"`
}

// StatusBox is a fixed headline figure.
type StatusBox struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Colour Colour `json:"colour"`
}

// CardSpec describes an animated metric card. A zero Value with Share set derives
// the card from the total.
type CardSpec struct {
	Key    string
	Label  string
	Colour Colour
	Value  float64
	Share  float64
}

var kindAccents = map[HighlightKind]Colour{
	KindDemand: MustHex("#3b82f6"),
	KindRating: MustHex("#eab308"),
	KindTrend:  MustHex("#6366f1"),
	KindAlert:  MustHex("#ef4444"),
}

// Accent returns the banner colour of a highlight kind.
func (k HighlightKind) Accent() Colour {
	if c, ok := kindAccents[k]; ok {
		return c
	}
	return kindAccents[KindDemand]
}

// DefaultHighlights are the banners shown before any notification arrives.
func DefaultHighlights() []Highlight {
	return []Highlight{
		{Kind: KindDemand, Icon: "⚡", Label: "MAIS SOLICITADO", Value: "Limpeza Urbana"},
		{Kind: KindRating, Icon: "★", Label: "MELHOR AVALIADO", Value: "Iluminação Pública (4.9)"},
		{Kind: KindTrend, Icon: "↗", Label: "TENDÊNCIA", Value: "+12% em Poda de Árvore"},
		{Kind: KindAlert, Icon: "●", Label: "ALERTA EM TEMPO REAL", Value: "Novo vazamento em Tambaú"},
	}
}

// DefaultServices is the operational load table.
func DefaultServices() []ServiceMetric {
	return []ServiceMetric{
		{Label: "Limpeza Urbana", Days: 2.5, TotalPercentage: 75, Operational: 40, Fiscalization: 25, Administrative: 10},
		{Label: "Iluminação", Days: 1.8, TotalPercentage: 60, Operational: 35, Fiscalization: 20, Administrative: 5},
		{Label: "Poda de Árvore", Days: 4.2, TotalPercentage: 45, Operational: 25, Fiscalization: 15, Administrative: 5},
		{Label: "Drenagem", Days: 3.0, TotalPercentage: 30, Operational: 15, Fiscalization: 10, Administrative: 5},
	}
}

// DefaultDepartments is the efficiency ranking.
func DefaultDepartments() []DeptEfficiency {
	return []DeptEfficiency{
		{ID: 1, Code: "EM", Name: "EMLUR", SubName: "LIMPEZA & COLETA", Efficiency: 95, Solicitations: "12.5k", Colour: MustHex("#10b981")},
		{ID: 2, Code: "SE", Name: "SEURB", SubName: "URBANISMO", Efficiency: 88, Solicitations: "10.2k", Colour: MustHex("#3b82f6")},
		{ID: 3, Code: "SM", Name: "SEMOB", SubName: "MOBILIDADE", Efficiency: 72, Solicitations: "8.1k", Colour: MustHex("#f97316")},
		{ID: 4, Code: "SS", Name: "SESAU", SubName: "SAÚDE", Efficiency: 81, Solicitations: "5.4k", Colour: MustHex("#34d399")},
	}
}

// DefaultStatus is the status panel.
func DefaultStatus() []StatusBox {
	return []StatusBox{
		{Label: "SLA GLOBAL", Value: "94.2%", Colour: MustHex("#34d399")},
		{Label: "UPTIME", Value: "99.9%", Colour: MustHex("#60a5fa")},
		{Label: "CONEXÕES", Value: "1.4k", Colour: MustHex("#818cf8")},
		{Label: "NÍVEL ALERTA", Value: "BAIXO", Colour: MustHex("#10b981")},
	}
}

// Card keys accepted by target messages.
const (
	CardTotal      = "total"
	CardPending    = "pending"
	CardResolved   = "resolved"
	CardProcessing = "processing"
)

// DefaultCards are the animated metric cards beside the main counter.
func DefaultCards() []CardSpec {
	return []CardSpec{
		{Key: CardPending, Label: "PENDÊNCIAS TOTAIS", Colour: MustHex("#f97316"), Share: 0.05},
		{Key: CardResolved, Label: "RESOLVIDOS (24H)", Colour: MustHex("#10b981"), Value: 2450},
		{Key: CardProcessing, Label: "EM PROCESSAMENTO", Colour: MustHex("#3b82f6"), Value: 1820},
	}
}
