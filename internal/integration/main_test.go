//go:build integration

package integration

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"currencyconverter/internal/store"
	"currencyconverter/internal/testkit"
)

func TestMain(m *testing.M) {
	testkit.Run(m, func() error {
		ctx := context.Background()

		var err error
		testDB, err = testkit.Global().Postgres().OpenDB(ctx)
		if err != nil {
			return err
		}
		if err := store.RunMigrations(testDB, zap.NewNop().Sugar()); err != nil {
			return err
		}

		testRDB = testkit.Global().Redis().NewClient()
		return testRDB.Ping(ctx).Err()
	})
}
