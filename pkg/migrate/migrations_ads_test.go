package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestUserAdsMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_user_ads.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS user_ads",
		"CONSTRAINT user_ads_ad_user_key UNIQUE (ad_id, user_id)",
		"images TEXT NOT NULL DEFAULT '[]'",
		"condition TEXT CHECK (condition IN ('new', 'used'))",
	}
	for _, check := range checks {
		if !strings.Contains(content, check) {
			t.Fatalf("user_ads migration missing %q", check)
		}
	}

	// sold distinguishes "never marked" from false, so the column stays nullable.
	if strings.Contains(content, "sold BOOLEAN NOT NULL") {
		t.Fatalf("sold column must be nullable")
	}
}

func TestRejectedAdsMigrationRecordsReason(t *testing.T) {
	content := readMigration(t, "*_create_rejected_user_ads.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS rejected_user_ads",
		"rejection_reason TEXT NOT NULL",
		"CONSTRAINT rejected_user_ads_ad_user_key UNIQUE (ad_id, user_id)",
	}
	for _, check := range checks {
		if !strings.Contains(content, check) {
			t.Fatalf("rejected_user_ads migration missing %q", check)
		}
	}
}

func TestFavoritesMigrationEnforcesOnePerUserAndAd(t *testing.T) {
	content := readMigration(t, "*_create_user_fav_ads.sql")

	if !strings.Contains(content, "CONSTRAINT user_fav_ads_user_ad_key UNIQUE (user_id, ad_id)") {
		t.Fatalf("user_fav_ads migration missing unique (user_id, ad_id) constraint")
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration file matching %q", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
