package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shespeaks/internal/config"
	"shespeaks/internal/export"
	"shespeaks/internal/insight"
	"shespeaks/internal/logger"
	"shespeaks/internal/model"
	"shespeaks/internal/repository"
)

const sampleSize = 40

// Usage: seed [responses.csv]
// Without an argument a deterministic sample survey is inserted.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Options{}).WithError(err).Fatal("invalid configuration")
	}
	log := logger.New(logger.Options{Environment: cfg.Environment, Level: cfg.Logging.Level}).WithComponent("seed")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		log.WithError(err).Fatal("failed to connect to MongoDB")
	}
	defer client.Disconnect(ctx)

	var rows []model.Response
	if len(os.Args) > 1 {
		rows, err = fromCSV(os.Args[1])
		if err != nil {
			log.WithError(err).Fatal("failed to read responses")
		}
	} else {
		rows = sample(rand.New(rand.NewSource(2025)), sampleSize, time.Now().UTC())
	}

	repo := repository.NewResponseRepo(client.Database(cfg.Mongo.Database), cfg.Mongo.Collection, cfg.Mongo.FetchRetry, log)
	n, err := repo.InsertMany(ctx, rows)
	if err != nil {
		log.WithError(err).Fatal("failed to insert responses")
	}

	total, err := repo.Count(ctx)
	if err != nil {
		log.WithError(err).Warn("count failed")
	}
	log.WithField("inserted", n).WithField("total", total).Info("seeded responses")
}

func fromCSV(path string) ([]model.Response, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := export.ParseCSV(f, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	rows := t.Rows()
	for i := range rows {
		if rows[i].CreatedAtDefaulted {
			rows[i].CreatedAt = time.Time{}
		}
	}
	return rows, nil
}

var (
	years    = []string{"First", "Second", "Third", insight.FinalYear}
	courses  = []string{"CSE", "ECE", "Mechanical", "Civil", "IT", "Chemical"}
	judged   = []string{"never", "rarely", "sometimes", "multiple"}
	voices   = []string{"heard", "ignored", "talked-over", "depends"}
	yesNo    = []string{"yes", "no", "sometimes"}
	barriers = []string{
		"I was afraid nobody would take it seriously",
		"Did not know who to talk to about it",
		"Worried it would affect my grades and career",
		"Felt like it was not a big deal",
		"",
	}
	changes = []string{
		"More women mentors and faculty support",
		"Equal lab access and no curfews for girls",
		"Clear anti harassment policy and safe reporting",
		"Stop judging girls in technical clubs",
		"Better hostel facilities and security",
	}
	advice = []string{
		"Speak up, your ideas matter",
		"Find your people early",
		"Don't let anyone tell you it is not for you",
		"Build things and show them",
		"ok",
	}
)

func pick(r *rand.Rand, xs []string) string { return xs[r.Intn(len(xs))] }

// sample generates n plausible survey responses spread over the past week
func sample(r *rand.Rand, n int, now time.Time) []model.Response {
	out := make([]model.Response, 0, n)
	for i := 0; i < n; i++ {
		fields := map[string]model.Value{
			insight.FieldYear:        model.Scalar(pick(r, years)),
			insight.FieldCourse:      model.Scalar(pick(r, courses)),
			insight.FieldJudged:      model.Scalar(pick(r, judged)),
			insight.FieldVoice:       model.Scalar(pick(r, voices)),
			insight.FieldSteppedBack: model.Scalar(pick(r, yesNo)),
			insight.FieldCurfews:     model.Scalar(pick(r, yesNo)),
			insight.FieldOneChange:   model.Scalar(pick(r, changes)),
			insight.FieldAdvice:      model.Scalar(pick(r, advice)),
		}
		if b := pick(r, barriers); b != "" {
			fields[insight.FieldHeldBackReport] = model.Scalar(b)
		}
		for _, q := range insight.MoodQuestions {
			fields[q.Key] = model.Scalar(strconv.Itoa(1 + r.Intn(5)))
		}

		var help []string
		for _, o := range insight.HelpOptions {
			if r.Intn(3) == 0 {
				help = append(help, o.Key)
			}
		}
		fields[insight.FieldHelp] = model.List(help...)

		out = append(out, model.Response{
			ID:        primitive.NewObjectID().Hex(),
			CreatedAt: now.Add(-time.Duration(r.Intn(7*24)) * time.Hour),
			Fields:    fields,
		})
	}
	return out
}
