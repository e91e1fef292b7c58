package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/jonathan/training-report/internal/catalog"
	"github.com/jonathan/training-report/internal/config"
	"github.com/jonathan/training-report/internal/form"
	"github.com/jonathan/training-report/internal/generation"
	"github.com/jonathan/training-report/internal/observability"
	"github.com/jonathan/training-report/internal/scoring"
	"github.com/jonathan/training-report/internal/types"
)

var fillCmd = &cobra.Command{
	Use:   "fill",
	Short: "Fill in the questionnaire interactively and generate a report",
	Long: `Walk through the training questionnaire in the terminal, then generate,
refine and save the report. Use --out to keep the answers as a FormData JSON
file for later "generate --form" runs.`,
	Args: cobra.NoArgs,
	RunE: runFill,
}

var (
	fillFrom   string
	fillOut    string
	fillNoSave bool
)

func init() {
	fillCmd.Flags().StringVar(&fillFrom, "from", "", "Start from an existing FormData JSON file")
	fillCmd.Flags().StringVarP(&fillOut, "out", "o", "", "Write the answers to this FormData JSON file")
	fillCmd.Flags().BoolVar(&fillNoSave, "no-save", false, "Do not offer to save the result")
	rootCmd.AddCommand(fillCmd)
}

var (
	colorAccent = lipgloss.Color("#fe8019")
	colorGreen  = lipgloss.Color("#8ec07c")
	colorFg     = lipgloss.Color("#ebdbb2")
	colorDim    = lipgloss.Color("#928374")

	headingStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	noteStyle    = lipgloss.NewStyle().Foreground(colorDim)
)

// reportHuhTheme is the form theme used by every questionnaire step
func reportHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(colorAccent)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(colorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(colorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(colorFg).Background(colorAccent).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(colorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(colorAccent)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(colorAccent)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(colorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(colorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(colorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(colorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(colorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(colorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(colorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(colorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(colorDim)

	return t
}

func isInteractive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

func runFill(cmd *cobra.Command, _ []string) error {
	if !isInteractive() {
		return fmt.Errorf("fill needs an interactive terminal; use \"generate --form\" instead")
	}
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	f := types.NewFormData()
	f.UserName = cfg.UserName
	if cfg.Personality != "" {
		f.Personality = cfg.Personality
	}
	if fillFrom != "" {
		if f, err = readForm(fillFrom, cfg); err != nil {
			return err
		}
	}

	f, err = askQuestionnaire(f)
	if errors.Is(err, huh.ErrUserAborted) {
		fmt.Println(noteStyle.Render("aborted"))
		return nil
	}
	if err != nil {
		return err
	}

	if fillOut != "" {
		if err := writeFormFile(fillOut, f); err != nil {
			return err
		}
		fmt.Println(noteStyle.Render("answers written to " + fillOut))
	}

	printQuality(scoring.ScoreForm(f))
	if err := generation.ValidateForm(f); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return refineLoop(ctx, cfg, f)
}

func printQuality(q scoring.Result) {
	fmt.Println(headingStyle.Render(fmt.Sprintf("入力の具体性: %d/%d", q.Score, scoring.MaxScore)))
	for _, w := range q.Warnings {
		fmt.Println(noteStyle.Render("  - " + w))
	}
}

// step runs one huh form and applies the resulting patch
type step func(f types.FormData) (types.FormData, error)

func askQuestionnaire(f types.FormData) (types.FormData, error) {
	steps := []struct {
		title string
		run   step
	}{
		{"1/5 基本情報", askBasics},
		{"2/5 業務内容", askJob},
		{"3/5 業務上の課題", askIssues},
		{"4/5 研修で学んだ内容", askLearning},
		{"5/5 今後の活用", askApply},
	}
	var err error
	for _, s := range steps {
		fmt.Println(headingStyle.Render(s.title))
		if f, err = s.run(f); err != nil {
			return f, err
		}
	}
	return f, nil
}

func runForm(groups ...*huh.Group) error {
	return huh.NewForm(groups...).WithTheme(reportHuhTheme()).WithShowHelp(false).Run()
}

func required(label string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%sを入力してください", label)
		}
		return nil
	}
}

// withOther appends the free-text option to a select list
func withOther(items []string) []huh.Option[string] {
	return huh.NewOptions(append(append([]string{}, items...), types.OtherOption)...)
}

func askBasics(f types.FormData) (types.FormData, error) {
	name := f.UserName
	training := f.TrainingType
	personality := f.Personality

	trainings := make([]huh.Option[types.TrainingType], 0, len(types.AllTrainingTypes))
	for _, t := range catalog.Trainings() {
		trainings = append(trainings, huh.NewOption(string(t.Name), t.Name))
	}
	personalities := make([]huh.Option[string], 0, 6)
	for _, p := range catalog.Personalities() {
		personalities = append(personalities, huh.NewOption(p.Name+" - "+p.Description, p.ID))
	}

	err := runForm(huh.NewGroup(
		huh.NewInput().Title("氏名").Value(&name).Validate(required("氏名")),
		huh.NewSelect[types.TrainingType]().Title("受講した研修").Options(trainings...).Value(&training),
		huh.NewSelect[string]().Title("文章のトーン").Options(personalities...).Value(&personality),
	))
	if err != nil {
		return f, err
	}
	f, err = form.Apply(f, types.FormPatch{UserName: &name, TrainingType: &training, Personality: &personality})
	if err != nil {
		return f, err
	}

	tools := catalog.ToolsFor(f.TrainingType)
	toolOptions := make([]huh.Option[string], 0, len(tools))
	for _, t := range tools {
		toolOptions = append(toolOptions, huh.NewOption(t.Name, t.Name))
	}
	mainTool := f.MainTool
	if err := runForm(huh.NewGroup(
		huh.NewSelect[string]().Title("メインで学んだツール").Options(toolOptions...).Value(&mainTool),
	)); err != nil {
		return f, err
	}
	if f, err = form.SelectMainTool(f, mainTool); err != nil {
		return f, err
	}

	additional := f.AdditionalTools
	others := make([]huh.Option[string], 0, len(tools))
	for _, t := range tools {
		if t.Name != f.MainTool {
			others = append(others, huh.NewOption(t.Name, t.Name))
		}
	}
	if err := runForm(huh.NewGroup(
		huh.NewMultiSelect[string]().Title("その他に学んだツール（任意）").Options(others...).Value(&additional),
	)); err != nil {
		return f, err
	}
	return form.Apply(f, types.FormPatch{AdditionalTools: additional})
}

func askJob(f types.FormData) (types.FormData, error) {
	role := f.JobRole
	roleOther := f.JobRoleOther
	err := runForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("職種").Options(withOther(catalog.Roles())...).Value(&role),
		),
		huh.NewGroup(
			huh.NewInput().Title("職種（自由入力）").Value(&roleOther).Validate(required("職種")),
		).WithHideFunc(func() bool { return role != types.OtherOption }),
	)
	if err != nil {
		return f, err
	}
	if f, err = form.Apply(f, types.FormPatch{JobRole: &role, JobRoleOther: &roleOther}); err != nil {
		return f, err
	}

	opts := form.RoleOptions(f)
	tasks := f.JobTasks
	tasksOther := f.JobTasksOther
	flow := f.JobFlow
	fields := []huh.Field{}
	if len(opts.Tasks) > 0 {
		fields = append(fields, huh.NewMultiSelect[string]().Title("主な業務").Options(huh.NewOptions(opts.Tasks...)...).Value(&tasks))
	}
	fields = append(fields,
		huh.NewInput().Title("その他の業務（任意）").Value(&tasksOther),
		huh.NewText().Title("具体的な仕事の流れ").Placeholder(opts.JobFlowExample).Value(&flow),
	)
	if err := runForm(huh.NewGroup(fields...)); err != nil {
		return f, err
	}
	return form.Apply(f, types.FormPatch{JobTasks: tasks, JobTasksOther: &tasksOther, JobFlow: &flow})
}

func askIssues(f types.FormData) (types.FormData, error) {
	opts := form.RoleOptions(f)
	issues := f.Issues
	issuesOther := f.IssuesOther
	issueFlow := f.IssueFlow
	frequency := f.Frequency
	impact := f.Impact

	fields := []huh.Field{}
	if len(opts.Issues) > 0 {
		fields = append(fields, huh.NewMultiSelect[string]().Title("課題").Options(huh.NewOptions(opts.Issues...)...).Value(&issues))
	}
	fields = append(fields,
		huh.NewInput().Title("その他の課題（任意）").Value(&issuesOther),
		huh.NewText().Title("課題の詳細").Placeholder(opts.IssuesExample).Value(&issueFlow),
		huh.NewInput().Title("発生頻度・失われている工数").Placeholder("例：毎日2時間、案件ごとに半日など").Value(&frequency),
		huh.NewInput().Title("具体的な弊害・品質への影響").Placeholder("例：担当者により選定精度が異なり品質にムラがある").Value(&impact),
	)
	if err := runForm(huh.NewGroup(fields...)); err != nil {
		return f, err
	}
	return form.Apply(f, types.FormPatch{
		Issues: issues, IssuesOther: &issuesOther, IssueFlow: &issueFlow,
		Frequency: &frequency, Impact: &impact,
	})
}

func askLearning(f types.FormData) (types.FormData, error) {
	points := f.LearningPoints
	pointsOther := f.LearningPointsOther
	cautions := f.Cautions

	fields := []huh.Field{}
	if options := form.LearningPointOptions(f); len(options) > 0 {
		fields = append(fields, huh.NewMultiSelect[string]().
			Title("習得した技術（"+f.MainTool+"）").
			Options(huh.NewOptions(options...)...).
			Value(&points))
	}
	fields = append(fields,
		huh.NewText().Title("その他の学び・印象に残ったこと（任意）").Value(&pointsOther),
		huh.NewInput().Title("実務での留意事項・制限（任意）").Placeholder("例：機密情報の入力禁止、著作権保護への配慮").Value(&cautions),
	)
	if err := runForm(huh.NewGroup(fields...)); err != nil {
		return f, err
	}
	return form.Apply(f, types.FormPatch{LearningPoints: points, LearningPointsOther: &pointsOther, Cautions: &cautions})
}

func askApply(f types.FormData) (types.FormData, error) {
	opts := form.RoleOptions(f)
	applyTasks := f.ApplyTasks
	applyTasksOther := f.ApplyTasksOther
	applyMethods := f.ApplyMethods
	applyMethodsOther := f.ApplyMethodsOther
	kpiType := f.KPIType
	kpiTypeOther := f.KPITypeOther
	kpiValue := f.KPIValue
	kpiUnit := f.KPIUnit

	fields := []huh.Field{}
	if len(opts.ApplyTasks) > 0 {
		fields = append(fields, huh.NewMultiSelect[string]().Title("活用したい業務").Options(huh.NewOptions(opts.ApplyTasks...)...).Value(&applyTasks))
	}
	fields = append(fields, huh.NewInput().Title("その他の活用業務（任意）").Value(&applyTasksOther))
	if len(opts.ApplyMethods) > 0 {
		fields = append(fields, huh.NewMultiSelect[string]().Title("活用方法").Options(huh.NewOptions(opts.ApplyMethods...)...).Value(&applyMethods))
	}
	fields = append(fields, huh.NewInput().Title("その他の活用方法（任意）").Value(&applyMethodsOther))

	units := []huh.Option[string]{huh.NewOption("選択しない", "")}
	for _, u := range catalog.KPIUnits() {
		units = append(units, huh.NewOption(u.Label, u.Value))
	}
	kpiTypes := append([]huh.Option[string]{huh.NewOption("選択しない", "")}, withOther(catalog.KPITypes())...)

	err := runForm(
		huh.NewGroup(fields...),
		huh.NewGroup(
			huh.NewSelect[string]().Title("改善を狙うKPI").Options(kpiTypes...).Value(&kpiType),
		),
		huh.NewGroup(
			huh.NewInput().Title("KPI（自由入力）").Value(&kpiTypeOther),
		).WithHideFunc(func() bool { return kpiType != types.OtherOption }),
		huh.NewGroup(
			huh.NewInput().Title("目標値").Placeholder("例：30, 50, 10").Value(&kpiValue),
			huh.NewSelect[string]().Title("単位").Options(units...).Value(&kpiUnit),
		).WithHideFunc(func() bool { return kpiType == "" }),
	)
	if err != nil {
		return f, err
	}
	return form.Apply(f, types.FormPatch{
		ApplyTasks: applyTasks, ApplyTasksOther: &applyTasksOther,
		ApplyMethods: applyMethods, ApplyMethodsOther: &applyMethodsOther,
		KPIType: &kpiType, KPITypeOther: &kpiTypeOther, KPIValue: &kpiValue, KPIUnit: &kpiUnit,
	})
}

// Actions offered after each generation
const (
	actionRefine   = "refine"
	actionCustom   = "custom"
	actionUndo     = "undo"
	actionSwitch   = "switch"
	actionGenerate = "generate"
	actionSave     = "save"
	actionQuit     = "quit"
)

// refineLoop generates once, then lets the user refine, undo, regenerate and save
func refineLoop(ctx context.Context, cfg config.Config, f types.FormData) error {
	orch, closeLLM, err := newOrchestrator(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeLLM()

	printer := observability.NewPrinter(os.Stdout)
	sess := generation.NewSession(orch, f)
	snap, err := sess.Generate(ctx, true)
	if err != nil {
		return err
	}
	printer.PrintOutputs(finalOutputs(snap))

	for {
		actions := []huh.Option[string]{
			huh.NewOption("提案から修正する", actionRefine),
			huh.NewOption("指示を入力して修正する", actionCustom),
		}
		if snap.UndoDepth > 0 {
			actions = append(actions, huh.NewOption("元に戻す", actionUndo))
		}
		actions = append(actions,
			huh.NewOption("標準/長文を切り替える", actionSwitch),
			huh.NewOption("別パターンで再生成する", actionGenerate),
		)
		if !fillNoSave {
			actions = append(actions, huh.NewOption("保存して終了", actionSave))
		}
		actions = append(actions, huh.NewOption("終了", actionQuit))

		action := actionQuit
		if err := runForm(huh.NewGroup(
			huh.NewSelect[string]().Title("次の操作（編集中: " + string(snap.ActiveTab) + "）").Options(actions...).Value(&action),
		)); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		}

		switch action {
		case actionRefine, actionCustom:
			instruction, err := askInstruction(action == actionRefine)
			if errors.Is(err, huh.ErrUserAborted) {
				continue
			}
			if err != nil {
				return err
			}
			next, err := sess.Refine(ctx, instruction)
			if err != nil {
				fmt.Println(noteStyle.Render("修正に失敗しました: " + err.Error()))
				snap = sess.Snapshot()
				continue
			}
			snap = next
			if snap.RefineError != "" {
				fmt.Println(noteStyle.Render("修正に失敗したため元の文章のままです: " + snap.RefineError))
			}
		case actionUndo:
			snap, _ = sess.Undo()
		case actionSwitch:
			next := types.LengthLong
			if snap.ActiveTab == types.LengthLong {
				next = types.LengthStandard
			}
			if snap, err = sess.SwitchTab(next); err != nil {
				return err
			}
		case actionGenerate:
			if snap, err = sess.Generate(ctx, true); err != nil {
				return err
			}
		case actionSave:
			hist, closeDB, err := openHistory(ctx, cfg)
			if err != nil {
				return err
			}
			entry, err := sess.Save(ctx, hist, cliUserID(), false)
			closeDB()
			if err != nil {
				return err
			}
			fmt.Println(headingStyle.Render("保存しました: " + entry.ID))
			return nil
		default:
			return nil
		}
		printer.PrintOutputs(finalOutputs(snap))
	}
}

func askInstruction(suggested bool) (string, error) {
	var instruction string
	if suggested {
		err := runForm(huh.NewGroup(
			huh.NewSelect[string]().Title("修正の方向").Options(huh.NewOptions(catalog.RefineSuggestions()...)...).Value(&instruction),
		))
		return instruction, err
	}
	err := runForm(huh.NewGroup(
		huh.NewInput().Title("修正指示").Placeholder("例：もっと具体的な数字を入れて").Value(&instruction).Validate(required("修正指示")),
	))
	return instruction, err
}

// writeFormFile stores the answers as a FormData JSON document
func writeFormFile(path string, f types.FormData) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()
	return writeJSON(file, f)
}
