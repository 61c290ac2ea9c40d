package questions

import (
	"context"
	_ "embed"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/xeipuuv/gojsonschema"
	"gorm.io/gorm"

	qmodel "quiz_session_backend/internals/features/quiz/questions/model"
)

//go:embed question_bank.schema.json
var questionBankSchema []byte

type VariantSeed struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

type MaQuestionSeed struct {
	Text string `json:"text"`
	// IsMultiple defaults to "more than one correct variant".
	IsMultiple *bool         `json:"is_multiple"`
	Points     int           `json:"points"`
	Variants   []VariantSeed `json:"variants"`
}

type TfQuestionSeed struct {
	Text   string `json:"text"`
	Answer bool   `json:"answer"`
	Points int    `json:"points"`
}

type QuestionBank struct {
	MaQuestions []MaQuestionSeed `json:"ma_questions"`
	TfQuestions []TfQuestionSeed `json:"tf_questions"`
}

type Report struct {
	MaInserted int
	MaSkipped  int
	TfInserted int
	TfSkipped  int
}

// ParseQuestionBank validates raw seed JSON against the embedded schema and the bank rules.
func ParseQuestionBank(data []byte) (*QuestionBank, error) {
	res, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(questionBankSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, errors.Wrap(err, "read question bank")
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, errors.Errorf("question bank does not match schema: %s", strings.Join(msgs, "; "))
	}

	var bank QuestionBank
	if err := sonic.Unmarshal(data, &bank); err != nil {
		return nil, errors.Wrap(err, "decode question bank")
	}

	for i, q := range bank.MaQuestions {
		if countCorrect(q.Variants) == 0 {
			return nil, errors.Errorf("ma_questions[%d] %q: at least one variant must be correct", i, q.Text)
		}
	}
	return &bank, nil
}

func countCorrect(vs []VariantSeed) int {
	n := 0
	for _, v := range vs {
		if v.IsCorrect {
			n++
		}
	}
	return n
}

func pointsOrDefault(p int) int {
	if p < 1 {
		return 1
	}
	return p
}

func (b *QuestionBank) MaModels() []qmodel.MaQuestionModel {
	out := make([]qmodel.MaQuestionModel, 0, len(b.MaQuestions))
	for _, q := range b.MaQuestions {
		isMultiple := countCorrect(q.Variants) > 1
		if q.IsMultiple != nil {
			isMultiple = *q.IsMultiple
		}
		m := qmodel.MaQuestionModel{
			MaQuestionID:         uuid.New(),
			MaQuestionText:       strings.TrimSpace(q.Text),
			MaQuestionIsMultiple: isMultiple,
			MaQuestionPoints:     pointsOrDefault(q.Points),
		}
		for pos, v := range q.Variants {
			m.Variants = append(m.Variants, qmodel.MaQuestionVariantModel{
				MaQuestionVariantID:         uuid.New(),
				MaQuestionVariantQuestionID: m.MaQuestionID,
				MaQuestionVariantText:       strings.TrimSpace(v.Text),
				MaQuestionVariantIsCorrect:  v.IsCorrect,
				MaQuestionVariantPosition:   pos,
			})
		}
		out = append(out, m)
	}
	return out
}

func (b *QuestionBank) TfModels() []qmodel.TfQuestionModel {
	out := make([]qmodel.TfQuestionModel, 0, len(b.TfQuestions))
	for _, q := range b.TfQuestions {
		out = append(out, qmodel.TfQuestionModel{
			TfQuestionID:     uuid.New(),
			TfQuestionText:   strings.TrimSpace(q.Text),
			TfQuestionAnswer: q.Answer,
			TfQuestionPoints: pointsOrDefault(q.Points),
		})
	}
	return out
}

// SeedQuestionsFromJSON reads filePath and inserts every question whose text is not in the bank yet.
func SeedQuestionsFromJSON(ctx context.Context, db *gorm.DB, filePath string, log logrus.FieldLogger) (*Report, error) {
	log.WithField("file", filePath).Info("📥 reading question bank")

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrap(err, "read seed file")
	}
	bank, err := ParseQuestionBank(data)
	if err != nil {
		return nil, err
	}
	return SeedQuestions(ctx, db, bank, log)
}

func SeedQuestions(ctx context.Context, db *gorm.DB, bank *QuestionBank, log logrus.FieldLogger) (*Report, error) {
	var rep Report
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maTexts []string
		if err := tx.Model(&qmodel.MaQuestionModel{}).Pluck("ma_question_text", &maTexts).Error; err != nil {
			return errors.Wrap(err, "load existing ma questions")
		}
		existingMa := toSet(maTexts)

		var newMa []qmodel.MaQuestionModel
		for _, m := range bank.MaModels() {
			if _, ok := existingMa[m.MaQuestionText]; ok {
				rep.MaSkipped++
				continue
			}
			existingMa[m.MaQuestionText] = struct{}{}
			newMa = append(newMa, m)
		}
		if len(newMa) > 0 {
			// variants are inserted through the association
			if err := tx.Create(&newMa).Error; err != nil {
				return errors.Wrap(err, "insert ma questions")
			}
		}
		rep.MaInserted = len(newMa)

		var tfTexts []string
		if err := tx.Model(&qmodel.TfQuestionModel{}).Pluck("tf_question_text", &tfTexts).Error; err != nil {
			return errors.Wrap(err, "load existing tf questions")
		}
		existingTf := toSet(tfTexts)

		var newTf []qmodel.TfQuestionModel
		for _, m := range bank.TfModels() {
			if _, ok := existingTf[m.TfQuestionText]; ok {
				rep.TfSkipped++
				continue
			}
			existingTf[m.TfQuestionText] = struct{}{}
			newTf = append(newTf, m)
		}
		if len(newTf) > 0 {
			if err := tx.Create(&newTf).Error; err != nil {
				return errors.Wrap(err, "insert tf questions")
			}
		}
		rep.TfInserted = len(newTf)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"ma_inserted": rep.MaInserted,
		"ma_skipped":  rep.MaSkipped,
		"tf_inserted": rep.TfInserted,
		"tf_skipped":  rep.TfSkipped,
	}).Info("✅ question bank seeded")
	return &rep, nil
}

func toSet(in []string) map[string]struct{} {
	out := make(map[string]struct{}, len(in))
	for _, s := range in {
		out[s] = struct{}{}
	}
	return out
}
