package testutils

import (
	"context"
	"log"

	"github.com/itbasis/go-clock"
	"github.com/jrygrande/dynasty-dna/containers"
	"github.com/jrygrande/dynasty-dna/db"
	"github.com/jrygrande/dynasty-dna/model"
)

// TestDB wraps a postgres container and a DB connected to it. Tests share a
// single instance via their TestMain to keep container startup cost down.
type TestDB struct {
	DB    db.DB
	Clock clock.Clock

	container *containers.DBContainer
}

func NewTestDB() *TestDB {
	container := containers.NewDBContainer()

	c := clock.New()
	d, err := db.New(context.Background(), container.ConnectionString(), c)
	if err != nil {
		container.Shutdown()
		log.Fatalf("error connecting to test db: %v", err)
	}

	return &TestDB{
		DB:        d,
		Clock:     c,
		container: container,
	}
}

func (t *TestDB) Shutdown() {
	t.container.Shutdown()
}

func (t *TestDB) ConnectionString() string {
	return t.container.ConnectionString()
}

// InsertTestPlayers seeds the players the fake sleeper fixtures reference.
func InsertTestPlayers(d db.DB) error {
	players := []model.Player{
		{ID: "4034", FirstName: "Patrick", LastName: "Mahomes", Position: model.POS_QB, Team: "KC", Status: "Active"},
		{ID: "6786", FirstName: "CeeDee", LastName: "Lamb", Position: model.POS_WR, Team: "DAL", Status: "Active"},
		{ID: "5850", FirstName: "Josh", LastName: "Jacobs", Position: model.POS_RB, Team: "GB", Status: "Active"},
		{ID: "8155", FirstName: "Breece", LastName: "Hall", Position: model.POS_RB, Team: "NYJ", Status: "Active"},
		{ID: "9509", FirstName: "De'Von", LastName: "Achane", Position: model.POS_RB, Team: "MIA", Status: "Active"},
	}
	return d.UpsertPlayers(context.Background(), players)
}
