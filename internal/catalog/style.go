package catalog

// Personality is a writing tone the polish step is asked to adopt
type Personality struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"desc"`
}

var personalities = []Personality{
	{ID: "logical", Name: "論理的・分析的", Description: "数値や事実に基づいた客観的な表現"},
	{ID: "passionate", Name: "情熱的・前向き", Description: "意欲と期待感を込めた力強い表現"},
	{ID: "polite", Name: "丁寧・謙虚", Description: "周囲への感謝と着実な歩みを感じさせる表現"},
	{ID: "concise", Name: "簡潔・実務的", Description: "無駄を省き要点を最短で伝える表現"},
	{ID: "creative", Name: "独創的・柔軟", Description: "新しい可能性を模索する自由な表現"},
	{ID: "casual", Name: "素朴・等身大", Description: "飾らない素直な言葉で書いた素人らしい自然な表現"},
}

// Personalities returns the six writing tones in display order
func Personalities() []Personality {
	out := make([]Personality, len(personalities))
	copy(out, personalities)
	return out
}

// PersonalityByID returns the matching tone, falling back to the first one
func PersonalityByID(id string) Personality {
	for _, p := range personalities {
		if p.ID == id {
			return p
		}
	}
	return personalities[0]
}

// IsPersonality reports whether id names one of the fixed tones
func IsPersonality(id string) bool {
	for _, p := range personalities {
		if p.ID == id {
			return true
		}
	}
	return false
}

var refineSuggestions = []string{
	"もっと丁寧な表現にして",
	"もう少し簡潔にまとめて",
	"具体的な数字を増やして",
	"もっとカジュアルな文体にして",
	"文章を短くして",
	"敬語を柔らかくして",
}

// RefineSuggestions returns canned refinement instructions
func RefineSuggestions() []string {
	out := make([]string, len(refineSuggestions))
	copy(out, refineSuggestions)
	return out
}

// Canonical phrases with synonym entries
const (
	PhraseUtilize    = "活用する"
	PhraseStreamline = "効率化"
	PhraseVariance   = "ばらつき"
	PhrasePromptly   = "迅速に"
	PhraseCreate     = "作成する"
	PhraseExplain    = "説明する"
)

var synonyms = map[string][]string{
	PhraseUtilize:    {"活かす", "適用する", "取り入れる", "運用に組み込む", "実践する"},
	PhraseStreamline: {"省力化", "工数削減", "作業短縮", "簡略化", "スピードアップ"},
	PhraseVariance:   {"属人差", "判断差", "品質のムラ", "個人による精度の差"},
	PhrasePromptly:   {"速やかに", "スムーズに", "遅滞なく", "即座に"},
	PhraseCreate:     {"構築する", "アウトプットする", "まとめる", "生成する"},
	PhraseExplain:    {"案内する", "イメージを共有する", "プレゼンする"},
}

// Synonyms returns a copy of the synonym table keyed by canonical phrase
func Synonyms() map[string][]string {
	out := make(map[string][]string, len(synonyms))
	for k, v := range synonyms {
		vv := make([]string, len(v))
		copy(vv, v)
		out[k] = vv
	}
	return out
}

// Replacement rewrites a banned phrase into a softer equivalent
type Replacement struct {
	Banned      string `json:"banned"`
	Replacement string `json:"replacement"`
}

var bannedPhrases = []Replacement{
	{Banned: "革新的", Replacement: "大きな"},
	{Banned: "劇的", Replacement: "大幅な"},
	{Banned: "完全に", Replacement: "概ね"},
	{Banned: "必ず", Replacement: "目標として"},
}

// BannedPhrases returns the banned phrase table in application order
func BannedPhrases() []Replacement {
	out := make([]Replacement, len(bannedPhrases))
	copy(out, bannedPhrases)
	return out
}
