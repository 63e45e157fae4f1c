package scanner

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailsift/mailsift/internal/model"
	"github.com/mailsift/mailsift/internal/pattern"
)

func testPatterns() *pattern.Set {
	return pattern.Compile([]model.Category{
		{
			ID:       "billing",
			Priority: 80,
			Keywords: model.Keywords{Absolute: []string{"facture"}},
		},
		{
			ID:       "meetings",
			Priority: 50,
			Keywords: model.Keywords{Absolute: []string{"réunion"}},
		},
	})
}

func mkEmail(id, subject string) model.Email {
	return model.Email{
		ID:      id,
		Subject: subject,
		From: model.Recipient{EmailAddress: model.EmailAddress{
			Address: "sender@example.com",
		}},
	}
}

func testCorpus(n int) []model.Email {
	emails := make([]model.Email, 0, n)
	for i := 0; i < n; i++ {
		var e model.Email
		switch i % 4 {
		case 0:
			e = mkEmail(fmt.Sprintf("e%d", i), "votre facture")
		case 1:
			e = mkEmail(fmt.Sprintf("e%d", i), "réunion demain")
		case 2:
			e = mkEmail(fmt.Sprintf("e%d", i), "you have won a prize")
		default:
			e = mkEmail(fmt.Sprintf("e%d", i), "rien de spécial")
		}
		emails = append(emails, e)
	}
	return emails
}

func TestScan_BatchIntegrity(t *testing.T) {
	s := New(testPatterns(), Options{})
	emails := testCorpus(40)

	scanned, summary, err := s.Scan(context.Background(), emails)
	require.NoError(t, err)

	require.Len(t, scanned, 40)
	// 1:1 and in input order.
	for i := range scanned {
		assert.Equal(t, emails[i].ID, scanned[i].Email.ID)
	}

	total := 0
	for _, count := range summary.Breakdown {
		total += count
	}
	assert.Equal(t, 40, total, "breakdown counts must sum to the input size")
	assert.Equal(t, 40, summary.Total)

	assert.Equal(t, 10, summary.Breakdown["billing"])
	assert.Equal(t, 10, summary.Breakdown["meetings"])
	assert.Equal(t, 10, summary.Breakdown[model.CategorySpam])
	assert.Equal(t, 10, summary.Breakdown[model.CategoryOther])
	assert.Equal(t, 30, summary.Categorized)
	assert.Equal(t, 4, summary.CategoriesUsed)
	assert.Equal(t, 20, summary.AbsoluteMatches)
}

func TestScan_MalformedEmailsDoNotAbort(t *testing.T) {
	s := New(testPatterns(), Options{})

	emails := []model.Email{
		mkEmail("a", "votre facture"),
		{Subject: "missing id"},
		mkEmail("c", "réunion"),
		{},
		mkEmail("e", "votre facture"),
	}

	scanned, summary, err := s.Scan(context.Background(), emails)
	require.NoError(t, err)
	require.Len(t, scanned, 5)

	// Malformed records land in "other" with an error marker.
	assert.Equal(t, model.CategoryOther, scanned[1].Result.Category)
	assert.NotEmpty(t, scanned[1].Error)
	assert.Equal(t, model.CategoryOther, scanned[3].Result.Category)
	assert.NotEmpty(t, scanned[3].Error)
	assert.Equal(t, 2, summary.Errors)

	// Their neighbors are untouched.
	assert.Equal(t, "billing", scanned[0].Result.Category)
	assert.Equal(t, "meetings", scanned[2].Result.Category)
	assert.Equal(t, "billing", scanned[4].Result.Category)

	total := 0
	for _, count := range summary.Breakdown {
		total += count
	}
	assert.Equal(t, 5, total)
}

func TestScan_ProgressCadence(t *testing.T) {
	var calls [][2]int
	s := New(testPatterns(), Options{
		Progress: func(processed, total int) {
			calls = append(calls, [2]int{processed, total})
		},
	})

	_, _, err := s.Scan(context.Background(), testCorpus(25))
	require.NoError(t, err)

	// Every 10 emails plus completion.
	assert.Equal(t, [][2]int{{10, 25}, {20, 25}, {25, 25}}, calls)
}

func TestScan_NoProgressCallbackIsFine(t *testing.T) {
	s := New(testPatterns(), Options{})
	scanned, summary, err := s.Scan(context.Background(), testCorpus(7))
	require.NoError(t, err)
	assert.Len(t, scanned, 7)
	assert.Equal(t, 7, summary.Total)
}

func TestScan_ParallelMatchesSequential(t *testing.T) {
	emails := testCorpus(97)

	seq := New(testPatterns(), Options{})
	seqScanned, seqSummary, err := seq.Scan(context.Background(), emails)
	require.NoError(t, err)

	par := New(testPatterns(), Options{Workers: 8})
	parScanned, parSummary, err := par.Scan(context.Background(), emails)
	require.NoError(t, err)

	// Classification is a pure function of (email, patterns): parallel
	// execution must reproduce identical per-email results and aggregates.
	require.Len(t, parScanned, len(seqScanned))
	for i := range seqScanned {
		assert.Equal(t, seqScanned[i], parScanned[i])
	}

	seqSummary.Duration = 0
	parSummary.Duration = 0
	assert.Equal(t, seqSummary, parSummary)
}

func TestScan_ParallelProgressMonotone(t *testing.T) {
	var reports []int
	s := New(testPatterns(), Options{
		Workers: 6,
		Progress: func(processed, _ int) {
			reports = append(reports, processed)
		},
	})

	_, _, err := s.Scan(context.Background(), testCorpus(50))
	require.NoError(t, err)

	require.NotEmpty(t, reports)
	for i := 1; i < len(reports); i++ {
		assert.Greater(t, reports[i], reports[i-1])
	}
	assert.Equal(t, 50, reports[len(reports)-1])
}

func TestScan_AverageStats(t *testing.T) {
	s := New(testPatterns(), Options{})

	emails := []model.Email{
		mkEmail("a", "votre facture"), // 88 → 0.88
		mkEmail("b", "rien"),          // 0
	}
	_, summary, err := s.Scan(context.Background(), emails)
	require.NoError(t, err)

	assert.InDelta(t, 44.0, summary.AverageScore, 1e-9)
	assert.InDelta(t, 0.44, summary.AverageConfidence, 1e-9)
	assert.Equal(t, 1, summary.HighConfidence)
}

func TestScan_TopPatterns(t *testing.T) {
	s := New(testPatterns(), Options{})

	emails := []model.Email{
		mkEmail("a", "votre facture"),
		mkEmail("b", "facture impayée"),
		mkEmail("c", "réunion"),
	}
	_, summary, err := s.Scan(context.Background(), emails)
	require.NoError(t, err)

	require.NotEmpty(t, summary.TopPatterns)
	assert.Equal(t, PatternCount{Keyword: "facture", Count: 2}, summary.TopPatterns[0])
	assert.Equal(t, PatternCount{Keyword: "réunion", Count: 1}, summary.TopPatterns[1])
}

func TestScan_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(testPatterns(), Options{})
	_, _, err := s.Scan(ctx, testCorpus(10))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScan_RerunIsDeterministic(t *testing.T) {
	emails := testCorpus(60)
	s := New(testPatterns(), Options{})

	_, first, err := s.Scan(context.Background(), emails)
	require.NoError(t, err)
	_, second, err := s.Scan(context.Background(), emails)
	require.NoError(t, err)

	first.Duration = 0
	second.Duration = 0
	assert.Equal(t, first, second)
}
