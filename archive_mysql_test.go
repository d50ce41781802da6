//go:build integration

package tttplot

import (
	"context"
	"database/sql"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nolint:gochecknoglobals
var dockerPool *dockertest.Pool // the connection to docker
// nolint:gochecknoglobals
var sqlConfig *mysql.Config // the mysql container and config for connecting to the archive database

func TestMain(m *testing.M) {
	_ = mysql.SetLogger(log.New(ioutil.Discard, "", 0)) // silence mysql logger

	var err error
	dockerPool, err = dockertest.NewPool("")
	if err != nil {
		log.Fatalf("could not connect to docker: %s", err)
	}
	dockerPool.MaxWait = time.Minute * 2

	runOptions := dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "5.7",
		Env:        []string{"MYSQL_ROOT_PASSWORD=secret", "MYSQL_DATABASE=ttt"},
	}
	mysqlContainer, err := dockerPool.RunWithOptions(&runOptions)
	if err != nil {
		log.Fatalf("could not start mysqlContainer: %s", err)
	}
	sqlConfig = &mysql.Config{
		User:                 "root",
		Passwd:               "secret",
		Net:                  "tcp",
		Addr:                 fmt.Sprintf("localhost:%s", mysqlContainer.GetPort("3306/tcp")),
		DBName:               "ttt",
		AllowNativePasswords: true,
	}

	if err = dockerPool.Retry(func() error {
		db, err := sql.Open("mysql", sqlConfig.FormatDSN())
		if err != nil {
			return err
		}
		defer db.Close()
		return db.Ping()
	}); err != nil {
		log.Fatal(err)
	}

	code := m.Run()

	// You can't defer this because os.Exit ignores defer
	if err := dockerPool.Purge(mysqlContainer); err != nil {
		log.Fatalf("Could not purge resource: %s", err)
	}

	os.Exit(code)
}

func TestMySQLArchive(t *testing.T) {
	ctx := context.Background()
	cfg, err := ParseArchiveDSN(sqlConfig.FormatDSN())
	require.NoError(t, err)
	require.NoError(t, cfg.SetTable("mysql_points"))

	a, err := OpenArchive("mysql", cfg.FormatDSN())
	require.NoError(t, err)
	defer a.Close()
	require.NoError(t, a.Migrate(ctx))

	c := AntsThreadsCondition(9, 16, 16)
	want := Table{{0.5, 0.1}, {1.2, 0.35}, {3.0, 0.9}}
	require.NoError(t, a.Store(ctx, "run-1", c, want))

	got, err := a.Load(ctx, "run-1", c)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	runs, err := a.Runs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"run-1"}, runs)
}
