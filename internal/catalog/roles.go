package catalog

// RoleOptions are the suggestions offered once a job role is selected
type RoleOptions struct {
	Tasks          []string `json:"tasks"`
	Issues         []string `json:"issues"`
	ApplyTasks     []string `json:"applyTasks"`
	ApplyMethods   []string `json:"applyMethods"`
	JobFlowExample string   `json:"jobFlowExample"`
	IssuesExample  string   `json:"issuesExample"`
}

// Placeholder examples shown when the role is unknown or free text
const (
	DefaultJobFlowExample = "具体的な仕事の流れを記入してください..."
	DefaultIssuesExample  = "例：マニュアルが整備されておらず、新人の教育コストが高い..."
)

var roleOrder = []string{"営業", "技術・設計", "工事管理", "事務・総務", "企画・マーケティング", "制作・デザイン"}

var roleOptions = map[string]RoleOptions{
	"営業": {
		Tasks:          []string{"顧客開拓", "ヒアリング", "見積作成", "契約締結", "案件管理", "顧客フォロー"},
		Issues:         []string{"提案資料作成に時間がかかる", "ヒアリング漏れが発生する", "案件管理が属人化している", "適切な商品選定に迷う"},
		ApplyTasks:     []string{"商談準備の効率化", "パーソナライズされた提案", "ロールプレイング実施", "議事録の即時作成"},
		ApplyMethods:   []string{"顧客情報の要約プロンプト", "提案骨子生成ツールの活用", "過去失注理由の分析", "FAQの自動生成"},
		JobFlowExample: "顧客リストからターゲットを選定し、架電・訪問にてヒアリングを行います。その後、課題に合わせた提案書と見積書を作成し、プレゼンテーションを経て契約を締結します。",
		IssuesExample:  "競合他社との差別化ポイントを資料に落とし込む作業が属人化しており、若手社員の提案クオリティが安定しない。",
	},
	"技術・設計": {
		Tasks:          []string{"現地調査", "図面作成", "照明選定", "照度計算", "器具選定", "仕様確認"},
		Issues:         []string{"カタログ選定の工数が大きい", "設計品質に個人差がある", "手戻りが頻繁に発生する", "最新仕様の把握が困難"},
		ApplyTasks:     []string{"器具選定の自動化", "照度シミュレーション補完", "仕様書作成の迅速化", "技術ナレッジの共有"},
		ApplyMethods:   []string{"選定基準のプロンプト化", "カタログデータの学習", "図面チェックの自動化", "技術マニュアルの動画化"},
		JobFlowExample: "営業から共有された案件概要を基に現地調査を行い、既存設備の状況を確認します。そのデータを基に照明配置図の作成と照度計算を行い、最適な器具選定と見積作成を行います。",
		IssuesExample:  "数千ページに及ぶ最新カタログから、顧客の特殊な要望（調光機能や演色性）を満たす器具を特定するのに膨大な時間がかかっている。",
	},
	"工事管理": {
		Tasks:          []string{"現場調査", "工程表作成", "施工管理", "協力会社調整", "安全管理", "現場写真整理", "工事説明"},
		Issues:         []string{"工程表作成の負担が大きい", "現場説明が伝わりにくい", "写真整理が後回しになる", "安全教育の形骸化"},
		ApplyTasks:     []string{"工程表の自動生成", "工事説明動画の作成", "写真仕分けの自動化", "安全資料の視覚化"},
		ApplyMethods:   []string{"指定ルールに基づく工程出力", "現場写真のAI解析", "作業手順の動画マニュアル", "安全指示書のAI要約"},
		JobFlowExample: "確定した図面と工程表を確認し、必要な資材の発注と協力会社の手配を行います。現場では安全管理と進捗管理を行い、日報作成や完了写真の整理を日々進めます。",
		IssuesExample:  "現場ごとの特有な安全注意事項が協力会社に徹底されず、毎朝の朝礼での指示出しが形骸化してリスクの火種になっている。",
	},
	"事務・総務": {
		Tasks:          []string{"データ入力", "資料作成", "請求書処理", "電話応対", "スケジュール管理", "備品管理"},
		Issues:         []string{"定型業務の繰り返しが多い", "データの転記ミスが発生する", "問い合わせ対応の負荷", "マニュアルが古い"},
		ApplyTasks:     []string{"データ入力の自動化", "問い合わせ一次対応", "資料の自動構成", "社内規程の即時検索"},
		ApplyMethods:   []string{"スプレッドシート自動化", "AIチャットボット構築", "音声入力による起票", "PDFマニュアルのAI検索"},
		JobFlowExample: "各部署から提出される経費精算書類の内容をチェックし、会計システムへデータを入力します。不備がある場合は担当者へ差し戻し、月次決算に間に合うようスケジュール管理を行います。",
		IssuesExample:  "社内規程に関する似たような問い合わせが電話やメールで頻発し、本来集中すべき決算業務が細切れに中断されてしまう。",
	},
	"企画・マーケティング": {
		Tasks:          []string{"市場調査", "プロジェクト立案", "プレゼン資料作成", "効果測定", "SNS運用"},
		Issues:         []string{"アイデアが枯渇しやすい", "調査データの分析に時間がかかる", "資料のビジュアル化が苦手", "トレンド把握が遅れる"},
		ApplyTasks:     []string{"企画立案のブレスト", "競合調査の自動化", "ビジュアル資料の生成", "多言語展開の迅速化"},
		ApplyMethods:   []string{"多角的視点プロンプト", "Web検索AIによる競合分析", "AIによるデザイン生成", "トレンド記事の要約"},
		JobFlowExample: "SNSの分析ツールを用いて昨月の反響を確認し、次月の投稿キャンペーンを企画します。ターゲット層に響くキャッチコピーとビジュアル案を策定し、広告代理店と調整して入稿作業を行います。",
		IssuesExample:  "新商品のターゲット層に対する深いインサイト分析が不足しており、打ち出すキャッチコピーが過去の類似事例の焼き直しになりがちである。",
	},
	"制作・デザイン": {
		Tasks:          []string{"動画制作", "画像加工", "スライドデザイン", "コンテンツ構成", "キャッチコピー作成"},
		Issues:         []string{"制作工数の増大", "クオリティのムラ", "フィードバックの反映に時間がかかる", "素材探しに手間取る"},
		ApplyTasks:     []string{"初稿・プロトタイプ作成", "素材の自動生成・加工", "多媒体へのリサイズ", "動画テロップの自動化"},
		ApplyMethods:   []string{"AI画像生成による素材作成", "自動字幕生成ツールの活用", "デザインパターンの提案", "アバターによる解説動画"},
		JobFlowExample: "クライアントからのオリエン資料を読み込み、コンセプト設計と構成案を作成します。素材の選定・加工を行い、動画編集ソフトを用いてテロップ入れや効果音の調整を行い、初稿を納品します。",
		IssuesExample:  "クライアントからの曖昧な修正指示（もっと明るい感じで、等）の解釈にズレが生じ、何往復もの手戻りが発生して納品スケジュールを圧迫している。",
	},
}

// Roles returns the selectable job roles in display order (excluding "other")
func Roles() []string {
	out := make([]string, len(roleOrder))
	copy(out, roleOrder)
	return out
}

// OptionsForRole returns the suggestions for a role. Unknown roles get empty
// option lists and the generic placeholder examples.
func OptionsForRole(role string) RoleOptions {
	if opts, ok := roleOptions[role]; ok {
		return opts
	}
	return RoleOptions{
		Tasks:          []string{},
		Issues:         []string{},
		ApplyTasks:     []string{},
		ApplyMethods:   []string{},
		JobFlowExample: DefaultJobFlowExample,
		IssuesExample:  DefaultIssuesExample,
	}
}
