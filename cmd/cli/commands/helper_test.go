package commands

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/celestiaorg/pamdiscover/internal/app"
	"github.com/celestiaorg/pamdiscover/internal/db"
	"github.com/celestiaorg/pamdiscover/internal/db/models"
	"github.com/celestiaorg/pamdiscover/internal/types"
	"github.com/celestiaorg/pamdiscover/pkg/api/v1/client/mock"
)

// cliTest runs commands against an in-memory vault cache and a mock router
type cliTest struct {
	session *app.Session
	router  *mock.MockClient
	out     *bytes.Buffer
	errOut  *bytes.Buffer
}

// setupCLITest installs a session with one configuration bound to gateway "gw1"
func setupCLITest(t *testing.T) *cliTest {
	t.Helper()

	gdb, err := db.New(db.Options{Driver: db.DriverSQLite, DSN: "file::memory:"})
	require.NoError(t, err)

	router := &mock.MockClient{}
	router.ListGatewaysFn = func(context.Context) ([]types.Gateway, error) {
		return []types.Gateway{{ControllerUID: "gw1", ControllerName: "Lab Gateway", ApplicationUID: "app1"}}, nil
	}
	router.ConnectedGatewaysFn = func(context.Context) ([]string, error) {
		return []string{"gw1"}, nil
	}

	s := app.NewSessionWith(gdb, router)
	ctx := context.Background()
	require.NoError(t, s.Folders.CreateSharedFolder(ctx, &models.SharedFolder{UID: "sf1", Name: "Discovery", Key: bytes.Repeat([]byte{3}, 32)}))
	require.NoError(t, s.Applications.Create(ctx, &models.Application{UID: "app1", Title: "Gateway App"}))
	require.NoError(t, s.Records.Create(ctx, &models.Record{
		UID:   "cfg1",
		Type:  "pamNetworkConfiguration",
		Title: "Network",
		Fields: []models.TypedField{
			{Type: "pamResources", Value: []interface{}{map[string]interface{}{"controllerUid": "gw1", "folderUid": "sf1"}}},
		},
	}))

	// Save the original session and restore it after the test
	original := session
	session, sessionErr = s, nil
	t.Cleanup(func() {
		session, sessionErr = original, nil
		_ = s.Close()
		resetFlags(RootCmd)
		for _, c := range RootCmd.Commands() {
			resetFlags(c)
		}
		RootCmd.SetIn(nil)
	})

	ct := &cliTest{session: s, router: router, out: &bytes.Buffer{}, errOut: &bytes.Buffer{}}
	RootCmd.SetOut(ct.out)
	RootCmd.SetErr(ct.errOut)
	return ct
}

// run executes the root command with args
func (c *cliTest) run(t *testing.T, args ...string) {
	t.Helper()
	c.out.Reset()
	c.errOut.Reset()
	RootCmd.SetArgs(args)
	require.NoError(t, RootCmd.Execute())
}

// runWithInput executes the root command reading operator answers from input
func (c *cliTest) runWithInput(t *testing.T, input string, args ...string) {
	t.Helper()
	RootCmd.SetIn(strings.NewReader(input))
	c.run(t, args...)
}

// resetFlags puts every flag of a command back to its default
func resetFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	cmd.LocalFlags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
}
