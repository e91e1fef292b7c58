// Package catalog holds the static reference data behind the questionnaire:
// trainings and their tools, tool categories, learning points, job roles,
// writing personalities, the synonym table and the banned phrase table.
package catalog

import (
	"github.com/jonathan/training-report/internal/types"
)

// Category groups tools that teach similar skills
type Category string

// Tool categories
const (
	CategoryText       Category = "Text"
	CategoryResearch   Category = "Research"
	CategoryVideo      Category = "Video"
	CategoryImage      Category = "Image"
	CategoryDiagram    Category = "Diagram"
	CategoryAutomation Category = "Automation"
	CategoryKnowledge  Category = "Knowledge"
	CategoryDesign     Category = "Design"
	CategoryAudio      Category = "Audio"
	CategoryMeeting    Category = "Meeting"
)

// Tool is an AI tool taught in a training
type Tool struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
}

// Training is a training course with the tools it covers
type Training struct {
	ID    string             `json:"id"`
	Name  types.TrainingType `json:"name"`
	Tools []Tool             `json:"tools"`
}

var trainingIDs = map[types.TrainingType]string{
	types.TrainingAIPractice:            "tr-01",
	types.TrainingVideoProduction:       "tr-02",
	types.TrainingOperationalEfficiency: "tr-03",
	types.TrainingAICulture:             "tr-04",
}

var trainingTools = map[types.TrainingType][]Tool{
	types.TrainingAIPractice: {
		{ID: "chatgpt", Name: "ChatGPT", Category: CategoryText},
		{ID: "writesonic", Name: "Writesonic", Category: CategoryText},
		{ID: "canva-ai", Name: "Canva AI", Category: CategoryDesign},
		{ID: "genspark", Name: "Genspark", Category: CategoryResearch},
		{ID: "mapify", Name: "Mapify", Category: CategoryDiagram},
		{ID: "napkin-ai", Name: "Napkin AI", Category: CategoryDiagram},
		{ID: "chatgpt-canvas", Name: "ChatGPT Canvas", Category: CategoryText},
		{ID: "tldv", Name: "tl;dv", Category: CategoryMeeting},
		{ID: "notion-ai", Name: "Notion AI", Category: CategoryKnowledge},
		{ID: "gpts", Name: "GPTs", Category: CategoryAutomation},
	},
	types.TrainingVideoProduction: {
		{ID: "gpt-4o", Name: "GPT-4o", Category: CategoryText},
		{ID: "copilot", Name: "Copilot", Category: CategoryText},
		{ID: "adobe-firefly", Name: "Adobe Firefly", Category: CategoryImage},
		{ID: "midjourney", Name: "Midjourney", Category: CategoryImage},
		{ID: "runway-gen2", Name: "Gen2", Category: CategoryVideo},
		{ID: "vrew", Name: "Vrew", Category: CategoryVideo},
		{ID: "heygen", Name: "HeyGen", Category: CategoryVideo},
		{ID: "capcut", Name: "CapCut", Category: CategoryVideo},
		{ID: "canva-v", Name: "Canva", Category: CategoryDesign},
		{ID: "immersity", Name: "Immersity AI", Category: CategoryVideo},
		{ID: "suno", Name: "SunoAI", Category: CategoryAudio},
		{ID: "premiere", Name: "Adobe Premiere Pro", Category: CategoryVideo},
	},
	types.TrainingOperationalEfficiency: {
		{ID: "perplexity", Name: "Perplexity", Category: CategoryResearch},
		{ID: "genspark-eff", Name: "Genspark", Category: CategoryResearch},
		{ID: "gas", Name: "GAS", Category: CategoryAutomation},
		{ID: "google-forms", Name: "Googleフォーム", Category: CategoryAutomation},
		{ID: "chatgpt-eff", Name: "ChatGPT", Category: CategoryText},
		{ID: "gamma-eff", Name: "Gamma", Category: CategoryDiagram},
		{ID: "heygen-eff", Name: "HeyGen", Category: CategoryVideo},
		{ID: "coefont", Name: "CoeFont", Category: CategoryAudio},
		{ID: "sora", Name: "Sora", Category: CategoryVideo},
		{ID: "suno-eff", Name: "Suno AI", Category: CategoryAudio},
	},
	types.TrainingAICulture: {
		{ID: "chatgpt-cult", Name: "ChatGPT", Category: CategoryText},
		{ID: "genspark-cult", Name: "Genspark", Category: CategoryResearch},
		{ID: "irusiru", Name: "イルシル", Category: CategoryDiagram},
		{ID: "perplexity-cult", Name: "Perplexity", Category: CategoryResearch},
		{ID: "claude", Name: "Claude", Category: CategoryText},
		{ID: "gemini", Name: "Gemini", Category: CategoryText},
		{ID: "notebooklm", Name: "NotebookLM", Category: CategoryKnowledge},
		{ID: "notion", Name: "Notion", Category: CategoryKnowledge},
	},
}

var categoryLearningPoints = map[Category][]string{
	CategoryText:       {"プロンプトエンジニアリング", "ロール指定による精度向上", "要約・抽出テクニック", "論理構成の自動作成", "Excel関数の生成"},
	CategoryResearch:   {"リアルタイム情報の検索", "エビデンスの特定", "競合比較表の自動生成", "情報の信頼性確認手法"},
	CategoryVideo:      {"台本・構成の自動生成", "アバターによる解説", "自動字幕・翻訳フロー", "動画内製化の手順"},
	CategoryImage:      {"プロンプトによる画像生成", "画像の一部改変・修正", "背景削除と合成", "著作権への配慮事項"},
	CategoryDiagram:    {"図解の自動生成", "マインドマップ化", "スライド構成の自動化", "インフォグラフィック化"},
	CategoryAutomation: {"Google Apps Script (GAS) による業務自動化", "カスタムGPTsの構築", "AIによるプログラムコード生成", "ワークフローの統合"},
	CategoryKnowledge:  {"ナレッジベースの構築", "社内情報のAI検索", "ドキュメントの一元管理", "AI活用ガイドライン"},
	CategoryDesign:     {"AIによるデザイン生成", "テンプレート活用による時短", "ブランド素材の統一管理", "プレゼン資料の自動レイアウト"},
	CategoryAudio:      {"AI音声合成によるナレーション作成", "BGM・効果音の自動生成", "多言語音声の自動生成", "音声コンテンツの内製化"},
	CategoryMeeting:    {"会議の自動文字起こし", "議事録の自動要約", "重要アクションの抽出", "会議内容の多言語翻訳"},
}

// Trainings returns every training course with its tools, in display order
func Trainings() []Training {
	out := make([]Training, 0, len(types.AllTrainingTypes))
	for _, t := range types.AllTrainingTypes {
		out = append(out, Training{ID: trainingIDs[t], Name: t, Tools: ToolsFor(t)})
	}
	return out
}

// ToolsFor returns the tools taught in the given training
func ToolsFor(training types.TrainingType) []Tool {
	tools := trainingTools[training]
	out := make([]Tool, len(tools))
	copy(out, tools)
	return out
}

// FindTool looks up a tool by display name within a training
func FindTool(training types.TrainingType, name string) (Tool, bool) {
	for _, tool := range trainingTools[training] {
		if tool.Name == name {
			return tool, true
		}
	}
	return Tool{}, false
}

// LearningPoints returns the learning points for a category
func LearningPoints(category Category) []string {
	points := categoryLearningPoints[category]
	out := make([]string, len(points))
	copy(out, points)
	return out
}

// LearningPointsFor aggregates the learning points of every category covered by
// the selected tools. Unknown tools are ignored; duplicates are dropped while
// preserving first-seen order.
func LearningPointsFor(training types.TrainingType, toolNames []string) []string {
	seenCategory := make(map[Category]bool)
	seenPoint := make(map[string]bool)
	points := []string{}

	for _, name := range toolNames {
		tool, ok := FindTool(training, name)
		if !ok || seenCategory[tool.Category] {
			continue
		}
		seenCategory[tool.Category] = true
		for _, p := range categoryLearningPoints[tool.Category] {
			if !seenPoint[p] {
				seenPoint[p] = true
				points = append(points, p)
			}
		}
	}
	return points
}
