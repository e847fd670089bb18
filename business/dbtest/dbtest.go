// Package dbtest provides helpers to set up a database for testing.
package dbtest

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"testing"
	"time"

	"github.com/ysaito/todoapi/business/database/postgres"
	"github.com/ysaito/todoapi/foundation/docker"
)

// NewDatabaseClient starts a postgres container, creates a throwaway database
// in it, migrates it and returns a ready to use client.
func NewDatabaseClient(t *testing.T, name string) *postgres.Client {
	image := "postgres:latest"
	port := "5432"
	dockerArgs := []string{"-e", "POSTGRES_PASSWORD=password"}
	appArgs := []string{"-c", "log_statement=all"}

	c, err := docker.StartContainer(image, name, port, dockerArgs, appArgs)
	if err != nil {
		t.Fatalf("failed to start container with image %q: %s", image, err)
	}

	t.Logf("Name/ID:  %s", c.Id)
	t.Logf("Host:Port  %s", c.HostPort)

	masterClient, err := postgres.NewClient(postgres.Config{
		User:       "postgres",
		Password:   "password",
		Host:       c.HostPort,
		Name:       "postgres",
		DisableTLS: true,
	})
	if err != nil {
		t.Fatalf("failed to create master db client: %s", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute*5)
	defer cancel()

	if err := masterClient.StatusCheck(ctx); err != nil {
		t.Fatalf("status check failed: %s", err)
	}

	//a random database per test
	bs := make([]byte, 8)
	if _, err := rand.Read(bs); err != nil {
		t.Fatalf("generating random database name: %s", err)
	}
	dbName := "a" + hex.EncodeToString(bs)

	if _, err := masterClient.DB.ExecContext(context.Background(), "CREATE DATABASE "+dbName); err != nil {
		t.Fatalf("failed to create database %q: %s", dbName, err)
	}

	client, err := postgres.NewClient(postgres.Config{
		User:       "postgres",
		Password:   "password",
		Host:       c.HostPort,
		Name:       dbName,
		DisableTLS: true,
	})
	if err != nil {
		t.Fatalf("failed to create a client: %s", err)
	}

	t.Logf("connected to the database %s", dbName)

	if err := client.StatusCheck(ctx); err != nil {
		t.Fatalf("status check failed: %s", err)
	}

	if err := client.Migrate(); err != nil {
		t.Fatalf("running migrations: %s", err)
	}

	t.Cleanup(func() {
		if err := client.DB.Close(); err != nil {
			t.Errorf("failed to close db client: %s", err)
		}

		if err := masterClient.DB.Close(); err != nil {
			t.Errorf("failed to close master db client: %s", err)
		}

		if err := c.Stop(); err != nil {
			t.Errorf("failed to stop container %s: %s", c.Id, err)
		}
	})

	return client
}
