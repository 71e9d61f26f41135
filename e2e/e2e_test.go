//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"asociacion-app-go/internal/config"
	"asociacion-app-go/internal/db"
	activitydomain "asociacion-app-go/internal/domain/activity"
	backupdomain "asociacion-app-go/internal/domain/backup"
	enrollmentdomain "asociacion-app-go/internal/domain/enrollment"
	memberdomain "asociacion-app-go/internal/domain/member"
	requestdomain "asociacion-app-go/internal/domain/request"
	"asociacion-app-go/internal/export"
	activityrepo "asociacion-app-go/internal/repository/postgres/activity"
	backuprepo "asociacion-app-go/internal/repository/postgres/backup"
	enrollmentrepo "asociacion-app-go/internal/repository/postgres/enrollment"
	memberrepo "asociacion-app-go/internal/repository/postgres/member"
	requestrepo "asociacion-app-go/internal/repository/postgres/request"
	"asociacion-app-go/internal/transport/httpserver"
	"asociacion-app-go/internal/transport/httpserver/handler"
	authmw "asociacion-app-go/internal/transport/httpserver/middleware"
	"asociacion-app-go/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

type testEnv struct {
	server *httptest.Server
	db     *gorm.DB
}

func setupE2E(t *testing.T) *testEnv {
	t.Helper()

	dsn := os.Getenv("E2E_DB_DSN")
	if dsn == "" {
		t.Skip("E2E_DB_DSN not set; skipping e2e tests")
	}

	cfg := config.Config{
		DB:   config.DBConfig{DSN: dsn},
		Auth: config.AuthConfig{JWTSecret: "e2e-secret", TokenTTL: time.Hour},
	}

	dbConn, err := db.NewPostgres(cfg.DB)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}

	if err := db.Migrate(dbConn); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if err := cleanDB(dbConn); err != nil {
		t.Fatalf("clean db: %v", err)
	}

	log := logger.New(io.Discard, slog.LevelError, "json")

	memberStore := memberrepo.NewPostgres(dbConn)
	activityStore := activityrepo.NewPostgres(dbConn)

	members := memberdomain.NewService(memberStore)
	activities := activitydomain.NewService(activityStore)
	enrollments := enrollmentdomain.NewService(enrollmentrepo.NewPostgres(dbConn), activityStore, memberStore)
	requests := requestdomain.NewService(requestrepo.NewPostgres(dbConn))
	backups := backupdomain.NewService(backuprepo.NewPostgres(dbConn), nil, log)

	auth := authmw.NewJWTAuth(cfg.Auth)
	pdf := export.NewRosterPDF("Asociación E2E")
	handlers := handler.New(members, activities, enrollments, requests, backups, auth, pdf, log)

	router := httpserver.NewRouter(cfg, handlers, auth, prometheus.NewRegistry())
	server := httptest.NewServer(router)

	if _, err := members.CreateAccount(context.Background(), memberdomain.CreateAccountInput{
		Name:         "Directiva E2E",
		LoginName:    "directiva",
		Password:     "directiva-pass",
		Role:         memberdomain.RoleBoard,
		ValidThrough: memberdomain.EndOfYear(time.Now()),
	}); err != nil {
		t.Fatalf("create board account: %v", err)
	}

	return &testEnv{server: server, db: dbConn}
}

func (e *testEnv) Close() {
	e.server.Close()
	sqlDB, err := e.db.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
}

func cleanDB(dbConn *gorm.DB) error {
	return dbConn.WithContext(context.Background()).Exec(
		"TRUNCATE TABLE enrollments, beneficiaries, request_dependents, membership_requests, activities, members RESTART IDENTITY CASCADE",
	).Error
}

func requestJSON(t *testing.T, client *http.Client, method, url, token string, payload interface{}) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}

	return resp, respBody
}

func decode(t *testing.T, data []byte, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(data, dst); err != nil {
		t.Fatalf("decode response %s: %v", data, err)
	}
}

func login(t *testing.T, env *testEnv, loginName, password string) string {
	t.Helper()

	resp, body := requestJSON(t, env.server.Client(), http.MethodPost, env.server.URL+"/api/auth/login", "", map[string]string{
		"login_name": loginName,
		"password":   password,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: status %d: %s", loginName, resp.StatusCode, body)
	}

	var parsed struct {
		Token string `json:"token"`
	}
	decode(t, body, &parsed)
	if parsed.Token == "" {
		t.Fatalf("login %s: empty token", loginName)
	}
	return parsed.Token
}

func TestMembershipLifecycle(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := env.server.Client()
	base := env.server.URL + "/api"

	boardToken := login(t, env, "directiva", "directiva-pass")

	// An applicant submits a request with one dependent.
	resp, body := requestJSON(t, client, http.MethodPost, base+"/requests", "", map[string]interface{}{
		"name":            "José",
		"first_surname":   "Muñoz",
		"second_surname":  "Pérez",
		"mobile":          "612345678",
		"birth_date":      "1990-05-01",
		"household_count": 2,
		"payment_method":  "bizum",
		"password":        "mi-contraseña",
		"dependents": []map[string]interface{}{
			{"name": "Lucía", "first_surname": "Muñoz", "birth_year": 2015},
		},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("submit request: status %d: %s", resp.StatusCode, body)
	}
	var submitted struct {
		ID          string `json:"id"`
		Status      string `json:"status"`
		AccessToken string `json:"access_token"`
	}
	decode(t, body, &submitted)
	if submitted.Status != "por_confirmar" || submitted.AccessToken == "" {
		t.Fatalf("unexpected submit response: %s", body)
	}

	// The applicant can revisit the confirmation without logging in.
	resp, body = requestJSON(t, client, http.MethodGet, base+"/requests/"+submitted.AccessToken, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get by token: status %d: %s", resp.StatusCode, body)
	}

	// The board approves and receives the one-time credentials.
	resp, body = requestJSON(t, client, http.MethodPost, base+"/admin/requests/"+submitted.ID+"/approve", boardToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("approve: status %d: %s", resp.StatusCode, body)
	}
	var approved struct {
		MemberNumber string `json:"member_number"`
		LoginName    string `json:"login_name"`
		Password     string `json:"password"`
	}
	decode(t, body, &approved)
	if approved.MemberNumber != "0001" {
		t.Fatalf("expected member number 0001, got %q", approved.MemberNumber)
	}
	if approved.Password != "mi-contraseña" {
		t.Fatalf("expected submitted password back, got %q", approved.Password)
	}

	// A second approval must fail.
	resp, _ = requestJSON(t, client, http.MethodPost, base+"/admin/requests/"+submitted.ID+"/approve", boardToken, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("re-approve: expected 409, got %d", resp.StatusCode)
	}

	memberToken := login(t, env, approved.LoginName, approved.Password)

	// The promoted beneficiary is visible to the new member.
	resp, body = requestJSON(t, client, http.MethodGet, base+"/me/beneficiaries", memberToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list beneficiaries: status %d: %s", resp.StatusCode, body)
	}
	var beneficiaries []struct {
		ID                string `json:"id"`
		BeneficiaryNumber string `json:"beneficiary_number"`
	}
	decode(t, body, &beneficiaries)
	if len(beneficiaries) != 1 || beneficiaries[0].BeneficiaryNumber != "0001-1" {
		t.Fatalf("unexpected beneficiaries: %s", body)
	}

	// Member routes are closed to the board-only surface and vice versa.
	resp, _ = requestJSON(t, client, http.MethodGet, base+"/admin/members", memberToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("socio on admin route: expected 403, got %d", resp.StatusCode)
	}

	// The board publishes a capacity-2 activity.
	scheduledAt := time.Now().Add(14 * 24 * time.Hour).UTC().Format(time.RFC3339)
	resp, body = requestJSON(t, client, http.MethodPost, base+"/admin/activities", boardToken, map[string]interface{}{
		"name":         "Excursión a la sierra",
		"scheduled_at": scheduledAt,
		"capacity":     2,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create activity: status %d: %s", resp.StatusCode, body)
	}
	var created struct {
		ID string `json:"id"`
	}
	decode(t, body, &created)

	// Member enrolls themselves and their beneficiary; a repeat is refused.
	resp, body = requestJSON(t, client, http.MethodPost, base+"/activities/"+created.ID+"/enrollments", memberToken, map[string]interface{}{})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("self enroll: status %d: %s", resp.StatusCode, body)
	}
	resp, body = requestJSON(t, client, http.MethodPost, base+"/activities/"+created.ID+"/enrollments", memberToken, map[string]interface{}{
		"beneficiary_id": beneficiaries[0].ID,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("beneficiary enroll: status %d: %s", resp.StatusCode, body)
	}
	resp, _ = requestJSON(t, client, http.MethodPost, base+"/activities/"+created.ID+"/enrollments", memberToken, map[string]interface{}{})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate enroll: expected 409, got %d", resp.StatusCode)
	}

	// The activity is now full even for other attendees.
	resp, body = requestJSON(t, client, http.MethodGet, base+"/activities/"+created.ID, memberToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get activity: status %d: %s", resp.StatusCode, body)
	}
	var withOccupancy struct {
		Occupancy int `json:"occupancy"`
		Available int `json:"available"`
	}
	decode(t, body, &withOccupancy)
	if withOccupancy.Occupancy != 2 || withOccupancy.Available != 0 {
		t.Fatalf("expected 2/0 occupancy, got %d/%d", withOccupancy.Occupancy, withOccupancy.Available)
	}

	// Roster resolves both attendee names; the board marks attendance.
	resp, body = requestJSON(t, client, http.MethodGet, base+"/admin/activities/"+created.ID+"/roster", boardToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("roster: status %d: %s", resp.StatusCode, body)
	}
	var roster []struct {
		ID            string `json:"id"`
		AttendeeName  string `json:"attendee_name"`
		IsBeneficiary bool   `json:"is_beneficiary"`
	}
	decode(t, body, &roster)
	if len(roster) != 2 {
		t.Fatalf("expected 2 roster entries, got %d: %s", len(roster), body)
	}

	attendanceURL := fmt.Sprintf("%s/admin/activities/%s/enrollments/%s/attendance", base, created.ID, roster[0].ID)
	resp, body = requestJSON(t, client, http.MethodPost, attendanceURL, boardToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("toggle attendance: status %d: %s", resp.StatusCode, body)
	}

	// The member cancels their own enrollment; a slot opens up.
	resp, _ = requestJSON(t, client, http.MethodDelete, base+"/activities/"+created.ID+"/enrollments", memberToken, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("cancel: expected 204, got %d", resp.StatusCode)
	}
	resp, body = requestJSON(t, client, http.MethodGet, base+"/activities/"+created.ID, memberToken, nil)
	decode(t, body, &withOccupancy)
	if withOccupancy.Available != 1 {
		t.Fatalf("expected a freed slot, got available %d", withOccupancy.Available)
	}

	// The backup export carries the full state.
	resp, body = requestJSON(t, client, http.MethodPost, base+"/admin/backup/export", boardToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("backup export: status %d: %s", resp.StatusCode, body)
	}
	var snapshot struct {
		Version     int               `json:"version"`
		Members     []json.RawMessage `json:"members"`
		Activities  []json.RawMessage `json:"activities"`
		Enrollments []json.RawMessage `json:"enrollments"`
	}
	decode(t, body, &snapshot)
	if snapshot.Version != 1 || len(snapshot.Members) != 2 || len(snapshot.Activities) != 1 || len(snapshot.Enrollments) != 1 {
		t.Fatalf("unexpected snapshot shape: version %d, %d members, %d activities, %d enrollments",
			snapshot.Version, len(snapshot.Members), len(snapshot.Activities), len(snapshot.Enrollments))
	}
}
