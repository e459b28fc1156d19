// simulate floods one specialist's calendar day with concurrent booking
// requests and then verifies, straight from Postgres, that the committed
// appointments never overlap. Useful for demonstrating the schedule lock:
// run several instances against the same API.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bellacita/salon-api/internal/booking"
	"github.com/bellacita/salon-api/internal/db"
)

type simConfig struct {
	APIBaseURL  string
	PostgresDSN string
	Email       string
	Password    string
	Date        string
	Workers     int
	Requests    int
}

type counters struct {
	created  atomic.Int64
	conflict atomic.Int64
	busy     atomic.Int64
	invalid  atomic.Int64
	errors   atomic.Int64
}

func main() {
	log.SetFlags(log.LstdFlags)

	cfg := simConfig{
		APIBaseURL:  envOr("SIM_API_URL", "http://127.0.0.1:8080"),
		PostgresDSN: os.Getenv("POSTGRES_DSN"),
		Email:       os.Getenv("SIM_EMAIL"),
		Password:    os.Getenv("SIM_PASSWORD"),
		Date:        envOr("SIM_DATE", time.Now().AddDate(0, 0, 1).Format("2006-01-02")),
		Workers:     envInt("SIM_WORKERS", 16),
		Requests:    envInt("SIM_REQUESTS", 200),
	}
	if cfg.PostgresDSN == "" {
		log.Fatal("POSTGRES_DSN is required")
	}
	if cfg.Email == "" || cfg.Password == "" {
		log.Fatal("SIM_EMAIL and SIM_PASSWORD are required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	pool, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
	cancel()
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	client := &http.Client{Timeout: 10 * time.Second}

	token, specialistID, err := login(client, cfg)
	if err != nil {
		log.Fatalf("login: %v", err)
	}

	clientIDs, serviceIDs, err := loadPoolData(context.Background(), pool)
	if err != nil {
		log.Fatalf("load data: %v", err)
	}
	log.Printf("simulating %d requests with %d workers against specialist %s on %s",
		cfg.Requests, cfg.Workers, specialistID, cfg.Date)

	var c counters
	jobs := make(chan int)
	var wg sync.WaitGroup

	start := time.Now()
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range jobs {
				bookOnce(client, cfg, token, specialistID, clientIDs, serviceIDs, &c)
			}
		}()
	}
	for i := 0; i < cfg.Requests; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	took := time.Since(start)

	log.Printf("done in %s: created=%d conflict=%d busy=%d invalid=%d errors=%d",
		took, c.created.Load(), c.conflict.Load(), c.busy.Load(), c.invalid.Load(), c.errors.Load())

	if err := verifyNoOverlap(context.Background(), pool, specialistID, cfg.Date); err != nil {
		log.Fatalf("INVARIANT VIOLATED: %v", err)
	}
	log.Println("non-overlap invariant holds")
}

func login(client *http.Client, cfg simConfig) (string, string, error) {
	body, _ := json.Marshal(map[string]string{
		"email":    cfg.Email,
		"password": cfg.Password,
	})

	resp, err := client.Post(cfg.APIBaseURL+"/api/v1/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", "", fmt.Errorf("login status %d: %s", resp.StatusCode, raw)
	}

	var out struct {
		Token        string `json:"token"`
		SpecialistID string `json:"specialist_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", "", err
	}

	return out.Token, out.SpecialistID, nil
}

func loadPoolData(ctx context.Context, pool *pgxpool.Pool) ([]string, []string, error) {
	clientIDs, err := queryIDs(ctx, pool, `SELECT id FROM clients LIMIT 500`)
	if err != nil {
		return nil, nil, err
	}
	serviceIDs, err := queryIDs(ctx, pool, `SELECT id FROM services WHERE active LIMIT 50`)
	if err != nil {
		return nil, nil, err
	}
	if len(clientIDs) == 0 || len(serviceIDs) == 0 {
		return nil, nil, fmt.Errorf("no clients or services seeded")
	}
	return clientIDs, serviceIDs, nil
}

func queryIDs(ctx context.Context, pool *pgxpool.Pool, sql string) ([]string, error) {
	rows, err := pool.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id.String())
	}
	return ids, rows.Err()
}

func bookOnce(client *http.Client, cfg simConfig, token, specialistID string, clientIDs, serviceIDs []string, c *counters) {
	// Random slot within working hours; heavy collisions are the point.
	startMin := 8*60 + 15*rand.Intn(40)

	payload := map[string]any{
		"client_id":     clientIDs[rand.Intn(len(clientIDs))],
		"specialist_id": specialistID,
		"service_ids":   []string{serviceIDs[rand.Intn(len(serviceIDs))]},
		"date":          cfg.Date,
		"start_time":    booking.FormatClock(startMin),
	}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequest(http.MethodPost, cfg.APIBaseURL+"/api/v1/appointments", bytes.NewReader(body))
	if err != nil {
		c.errors.Add(1)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		c.errors.Add(1)
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusCreated:
		c.created.Add(1)
	case http.StatusConflict:
		c.conflict.Add(1)
	case http.StatusServiceUnavailable:
		c.busy.Add(1)
	case http.StatusBadRequest, http.StatusNotFound:
		c.invalid.Add(1)
	default:
		c.errors.Add(1)
	}
}

type interval struct {
	id    string
	start int
	end   int
}

func verifyNoOverlap(ctx context.Context, pool *pgxpool.Pool, specialistID, date string) error {
	rows, err := pool.Query(ctx, `
		SELECT id, start_time, end_time
		FROM appointments
		WHERE specialist_id = $1 AND date = $2 AND status <> 'cancelled'
	`, specialistID, date)
	if err != nil {
		return err
	}
	defer rows.Close()

	var intervals []interval
	for rows.Next() {
		var id uuid.UUID
		var startClock, endClock string
		if err := rows.Scan(&id, &startClock, &endClock); err != nil {
			return err
		}

		start, err := booking.ParseClock(startClock)
		if err != nil {
			return err
		}
		end, err := booking.ParseClock(endClock)
		if err != nil {
			return err
		}
		intervals = append(intervals, interval{id: id.String(), start: start, end: end})
	}
	if err := rows.Err(); err != nil {
		return err
	}

	sort.Slice(intervals, func(i, j int) bool { return intervals[i].start < intervals[j].start })

	for i := 1; i < len(intervals); i++ {
		prev, cur := intervals[i-1], intervals[i]
		if cur.start < prev.end {
			return fmt.Errorf("appointments %s and %s overlap (%d < %d)", prev.id, cur.id, cur.start, prev.end)
		}
	}

	log.Printf("verified %d committed appointments", len(intervals))
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
