package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/avinash937288-ai/verdi-app/pkg/bank"
	"github.com/avinash937288-ai/verdi-app/pkg/models"
)

const adminStateKey = "vardi_admin_state"

// BridgeSources are the sites the bridge sync reports on.
var BridgeSources = []string{"GKToday", "Examveda", "Indiabix"}

const bridgeFetched = 1000

// BankCounter reports the size of the user question bank.
type BankCounter interface {
	BankCount(ctx context.Context) int
}

// AdminStateService tracks what the admin panel has done: the last bridge
// sync and the last import per source.
type AdminStateService struct {
	store   bank.Store
	counter BankCounter
	mu      sync.Mutex
	now     func() time.Time
}

func NewAdminStateService(store bank.Store, counter BankCounter) *AdminStateService {
	return &AdminStateService{store: store, counter: counter, now: time.Now}
}

// GetState returns the persisted admin state with a live bank count.
func (as *AdminStateService) GetState(ctx context.Context) (*models.AdminState, error) {
	state, err := as.load(ctx)
	if err != nil {
		return nil, err
	}
	if as.counter != nil {
		state.BankCount = as.counter.BankCount(ctx)
	}
	return state, nil
}

// RecordImport remembers the outcome of a bulk or OCR import.
func (as *AdminStateService) RecordImport(ctx context.Context, result *models.ImportResult) error {
	as.mu.Lock()
	defer as.mu.Unlock()

	state, err := as.load(ctx)
	if err != nil {
		return err
	}
	record := models.ImportRecord{
		Source:    result.Source,
		Extracted: result.Extracted,
		Stored:    result.Stored,
		At:        as.now(),
	}
	replaced := false
	for i := range state.LastImports {
		if state.LastImports[i].Source == record.Source {
			state.LastImports[i] = record
			replaced = true
		}
	}
	if !replaced {
		state.LastImports = append(state.LastImports, record)
	}
	return as.save(ctx, state)
}

// SyncBridge runs the simulated bridge fetch. It reports a fixed haul from the
// partner sites and leaves the question bank untouched.
func (as *AdminStateService) SyncBridge(ctx context.Context) (*models.BridgeReport, error) {
	as.mu.Lock()
	defer as.mu.Unlock()

	state, err := as.load(ctx)
	if err != nil {
		return nil, err
	}
	report := &models.BridgeReport{
		Fetched:  bridgeFetched,
		Sources:  append([]string(nil), BridgeSources...),
		Filtered: []string{"Math", "Hindi"},
		Message:  "Successfully fetched 1,000 (1k) questions from Examveda & Indiabix! Math and Hindi questions have been automatically filtered out.",
		SyncedAt: as.now(),
	}
	state.LastBridge = report
	if err := as.save(ctx, state); err != nil {
		return nil, err
	}
	log.Printf("🌉 Bridge sync reported %d questions from %v", report.Fetched, report.Sources)
	return report, nil
}

func (as *AdminStateService) load(ctx context.Context) (*models.AdminState, error) {
	data, found, err := as.store.Get(ctx, adminStateKey)
	if err != nil {
		return nil, fmt.Errorf("error reading admin state: %w", err)
	}
	state := &models.AdminState{LastImports: []models.ImportRecord{}}
	if !found {
		return state, nil
	}
	if err := json.Unmarshal(data, state); err != nil {
		log.Printf("⚠️ Corrupt admin state, starting over: %v", err)
		return &models.AdminState{LastImports: []models.ImportRecord{}}, nil
	}
	if state.LastImports == nil {
		state.LastImports = []models.ImportRecord{}
	}
	return state, nil
}

func (as *AdminStateService) save(ctx context.Context, state *models.AdminState) error {
	state.UpdatedAt = as.now()
	state.BankCount = 0
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("error serializing admin state: %w", err)
	}
	if err := as.store.Set(ctx, adminStateKey, data, 0); err != nil {
		return fmt.Errorf("error saving admin state: %w", err)
	}
	return nil
}
