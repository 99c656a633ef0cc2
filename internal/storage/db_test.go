package storage

import (
	"path/filepath"
	"reflect"
	"testing"

	"programcheck/internal"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func strp(v string) *string { return &v }

func TestKnowledgeBaseRoundTrip(t *testing.T) {
	db := openTestDB(t)

	kb, err := db.GetKnowledgeBase()
	if err != nil || kb != "" {
		t.Fatalf("kb=%q err=%v", kb, err)
	}
	if err := db.SetKnowledgeBase("CLAMO\nPENTH"); err != nil {
		t.Fatal(err)
	}
	if err := db.SetKnowledgeBase("CLAMO\nPENTH\nNOTIC"); err != nil {
		t.Fatal(err)
	}
	kb, err = db.GetKnowledgeBase()
	if err != nil || kb != "CLAMO\nPENTH\nNOTIC" {
		t.Fatalf("kb=%q err=%v", kb, err)
	}
}

func TestEmailLifecycle(t *testing.T) {
	db := openTestDB(t)

	email, err := db.UpsertEmail("imap", "<m1@example.test>", "Grilla", "ana@example.test", "2026-10-01T00:00:00Z", "h1", "/tmp/h1.eml", "fetched")
	if err != nil {
		t.Fatal(err)
	}
	again, err := db.UpsertEmail("imap", "<m1@example.test>", "Grilla v2", "ana@example.test", "2026-10-01T00:00:00Z", "h2", "/tmp/h2.eml", "fetched")
	if err != nil {
		t.Fatal(err)
	}
	if again.ID != email.ID || again.Subject != "Grilla v2" {
		t.Fatalf("upsert mismatch: %+v", again)
	}

	pending, err := db.ListEmailsByStatus("fetched", 10)
	if err != nil || len(pending) != 1 {
		t.Fatalf("pending=%v err=%v", pending, err)
	}
	if err := db.UpdateEmailStatus(email.ID, "processed"); err != nil {
		t.Fatal(err)
	}
	got, err := db.GetEmailByID(email.ID)
	if err != nil || got == nil || got.Status != "processed" {
		t.Fatalf("got=%+v err=%v", got, err)
	}
	if _, err := db.MustEmailByProviderMessageID("imap", "<missing>"); err == nil {
		t.Fatal("expected not found error")
	}
}

func TestRunRoundTrip(t *testing.T) {
	db := openTestDB(t)
	email, err := db.UpsertEmail("gmail", "<m2@example.test>", "", "", "", "h", "/tmp/h.eml", "fetched")
	if err != nil {
		t.Fatal(err)
	}

	days := []internal.DayData{
		{DayHeader: "Lunes", Programs: []internal.ProgramStatus{
			{Code: "CLAMO1", Status: internal.StatusValid},
			{Code: "CLAMO2", OriginalCode: strp("CLAMI2"), Status: internal.StatusCorrected, Reason: strp("corrected CLAMI → CLAMO")},
		}},
		{DayHeader: "Martes", Programs: []internal.ProgramStatus{
			{Code: "VAVIV3", Status: internal.StatusRemoved, Reason: strp("program removed from the schedule")},
		}},
	}
	emailID := email.ID
	runID, err := db.InsertRun(RunInput{TraceID: "t1", EmailID: &emailID, Source: "eml", Input: "Lunes\n...", Counts: map[string]int{"programs": 3}, Days: days})
	if err != nil {
		t.Fatal(err)
	}

	latest, err := db.LatestRunForEmail(email.ID)
	if err != nil || latest == nil || int64(latest.ID) != runID || latest.EmailID == nil || *latest.EmailID != email.ID {
		t.Fatalf("latest=%+v err=%v", latest, err)
	}

	stored, err := db.GetRunDays(int(runID))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(stored, days) {
		t.Fatalf("stored=%+v", stored)
	}

	rows, err := db.GetExportRows(int(runID))
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 || rows[1].Code != "CLAMO2" || rows[1].OriginalCode == nil || rows[2].DayHeader != "Martes" || rows[2].Position != 1 {
		t.Fatalf("rows=%+v", rows)
	}

	if err := db.ClearEmailRuns(email.ID); err != nil {
		t.Fatal(err)
	}
	latest, err = db.LatestRunForEmail(email.ID)
	if err != nil || latest != nil {
		t.Fatalf("latest after clear=%+v err=%v", latest, err)
	}
}
