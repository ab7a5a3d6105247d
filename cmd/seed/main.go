package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/sgtokt1221/tsukutan-app/internal/config"
	"github.com/sgtokt1221/tsukutan-app/internal/database"
	"github.com/sgtokt1221/tsukutan-app/internal/importer"
	"github.com/sgtokt1221/tsukutan-app/internal/model"
	"github.com/sgtokt1221/tsukutan-app/internal/store"
	"github.com/sgtokt1221/tsukutan-app/internal/validator"
)

// masterGoals is the fixed goal catalog. RequiredVocabulary counts come from
// published 英検 and entrance exam guidelines; Level is the catalog level a
// learner chasing that goal should top out at.
var masterGoals = []model.GoalMaster{
	{ID: "eiken_5", DisplayName: "英検5級 合格", Category: model.CategoryEiken, RequiredVocabulary: 600, Level: 1, Description: "中学初級レベル。英語学習の第一歩、基礎を固めましょう。"},
	{ID: "eiken_4", DisplayName: "英検4級 合格", Category: model.CategoryEiken, RequiredVocabulary: 1300, Level: 2, Description: "中学中級レベル。身近なトピックについて話せるようになります。"},
	{ID: "eiken_3", DisplayName: "英検3級 合格", Category: model.CategoryEiken, RequiredVocabulary: 2100, Level: 3, Description: "中学卒業レベル。海外旅行での簡単な会話に自信がつきます。"},
	{ID: "eiken_pre2", DisplayName: "英検準2級 合格", Category: model.CategoryEiken, RequiredVocabulary: 3600, Level: 4, Description: "高校中級レベル。入試や実用で有利になる英語力の証明です。"},
	{ID: "eiken_2", DisplayName: "英検2級 合格", Category: model.CategoryEiken, RequiredVocabulary: 5100, Level: 5, Description: "高校卒業レベル。社会で求められる英語力のスタンダードです。"},
	{ID: "eiken_pre1", DisplayName: "英検準1級 合格", Category: model.CategoryEiken, RequiredVocabulary: 8000, Level: 7, Description: "英語で自分の意見を発信できる、高い英語力を示します。"},
	{ID: "eiken_1", DisplayName: "英検1級 合格", Category: model.CategoryEiken, RequiredVocabulary: 12000, Level: 8, Description: "英語のエキスパートとして世界で活躍できる最高峰の資格です。"},

	{ID: "hs_45", DisplayName: "高校入試（偏差値45）合格", Category: model.CategoryHighSchool, RequiredVocabulary: 1500, Level: 2, Description: "まずは公立高校入試の基礎となる単語を確実にマスターしましょう。"},
	{ID: "hs_50", DisplayName: "高校入試（偏差値50）合格", Category: model.CategoryHighSchool, RequiredVocabulary: 2000, Level: 3, Description: "公立高校の標準的な入試レベル。長文読解の土台を築きます。"},
	{ID: "hs_60", DisplayName: "高校入試（偏差値60）合格", Category: model.CategoryHighSchool, RequiredVocabulary: 3000, Level: 4, Description: "難関公立・中堅私立高校レベル。応用的な長文にも対応できます。"},
	{ID: "hs_top", DisplayName: "高校入試（最難関）合格", Category: model.CategoryHighSchool, RequiredVocabulary: 4000, Level: 5, Description: "最難関私立・国立高校レベル。他の受験生に差をつけます。"},

	{ID: "uni_50", DisplayName: "大学入試（偏差値50）合格", Category: model.CategoryUniversity, RequiredVocabulary: 4000, Level: 5, Description: "共通テスト・日東駒専レベル。大学受験の標準的な語彙を固めます。"},
	{ID: "uni_60", DisplayName: "大学入試（偏差値60）合格", Category: model.CategoryUniversity, RequiredVocabulary: 5500, Level: 6, Description: "GMARCH・関関同立レベル。難関私大の長文読解で合格点をとります。"},
	{ID: "uni_top", DisplayName: "大学入試（最難関）合格", Category: model.CategoryUniversity, RequiredVocabulary: 7000, Level: 7, Description: "早慶上智・旧帝大レベル。超長文や専門的な文章を読み解きます。"},
}

func main() {
	workbookPath := flag.String("workbook", "", "Optional .xlsx vocabulary workbook to import")
	textbook := flag.String("textbook", "", "Textbook identifier for the workbook (required with -workbook)")
	flag.Parse()

	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	ctx := context.Background()

	goalStore := store.NewGoalStore(db)
	if err := goalStore.UpsertAll(ctx, masterGoals); err != nil {
		log.Fatalf("Failed to seed goal catalog: %v", err)
	}
	log.Printf("Seeded %d goals", len(masterGoals))

	if *workbookPath == "" {
		return
	}
	if *textbook == "" {
		log.Fatal("-textbook is required when importing a workbook")
	}

	f, err := os.Open(*workbookPath)
	if err != nil {
		log.Fatalf("Failed to open workbook: %v", err)
	}
	defer f.Close()

	catalogStore := store.NewCatalogStore(db, store.RetryPolicy{})
	imp := importer.NewWorkbookImporter(catalogStore, validator.NewItemValidator())

	result, err := imp.Import(ctx, f, *textbook)
	if err != nil {
		log.Fatalf("Workbook import failed: %v", err)
	}

	log.Printf("Workbook import complete: processed=%d imported=%d skipped=%d", result.TotalProcessed, result.Imported, result.Skipped)
	for _, e := range result.Errors {
		log.Printf("  %s", e)
	}
}
