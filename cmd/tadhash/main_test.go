package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jchantrell/tadhash/internal/address"
	"github.com/jchantrell/tadhash/internal/resolve"
)

// run executes the root command with args and returns its stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	testChdir(t, t.TempDir())
	color.NoColor = true

	// Flag variables are package globals and survive between runs
	singleStage, rawHash = false, false
	lookupByName, lookupAll, pathHashArg = false, false, ""
	noProgress = true
	resetChanged := func(f *pflag.Flag) { f.Changed = false }
	rootCmd.PersistentFlags().VisitAll(resetChanged)
	for _, c := range []*cobra.Command{rootCmd, hashCmd, lookupCmd, buildCmd, exportCmd, queryCmd} {
		c.Flags().VisitAll(resetChanged)
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--no-progress"))

	err := rootCmd.Execute()
	return out.String(), err
}

func TestHashCommand(t *testing.T) {
	out, err := run(t, "hash", "TEX/Foo.PNG?x=1")
	require.NoError(t, err)
	assert.Equal(t, "TEX/Foo.PNG?x=1\tpath=90acba01\tcontent=367da7b4\tfinal=18b8c2c0\n", out)
}

func TestHashCommand_Single(t *testing.T) {
	out, err := run(t, "hash", "--single", "TEX/Foo.PNG?x=1", "misc/fontdds/jpn_font.dds")
	require.NoError(t, err)
	assert.Equal(t,
		"TEX/Foo.PNG?x=1\tcontent=1663f0f2\tfinal=765c7745\n"+
			"misc/fontdds/jpn_font.dds\tcontent=8782d6b2\tfinal=37e551ce\n",
		out)
}

func TestHashCommand_Raw(t *testing.T) {
	out, err := run(t, "hash", "--raw", "hello world")
	require.NoError(t, err)
	assert.Equal(t, "f402b91e\thello world\n", out)
}

func TestHashCommand_AssetRoot(t *testing.T) {
	out, err := run(t, "hash", "--asset-root", "./data/", "a.bin")
	require.NoError(t, err)

	want := address.New("./data/").Compute("a.bin", true)
	assert.Contains(t, out, "final="+address.FormatHash(want.FinalHash))
}

func TestLookupCommand(t *testing.T) {
	out, err := run(t, "lookup", "33ac2418")
	require.NoError(t, err)
	assert.Equal(t, "33ac2418\tb79b5c75\t/misc/fontdds/jpn_font.dds\n", out)

	out, err = run(t, "lookup", "--path-hash", "0xb79b5c75", "0x33AC2418")
	require.NoError(t, err)
	assert.Equal(t, "33ac2418\tb79b5c75\t/misc/fontdds/jpn_font.dds\n", out)

	out, err = run(t, "lookup", "--all", "33ac2418")
	require.NoError(t, err)
	assert.Equal(t, "33ac2418\tb79b5c75\t/misc/fontdds/jpn_font.dds\n", out)
}

func TestLookupCommand_ByName(t *testing.T) {
	out, err := run(t, "lookup", "--name", "opening.sfd")
	require.NoError(t, err)

	e, found, err := resolve.Default().LookupByName("opening.sfd")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t,
		address.FormatHash(e.Hash)+"\t"+address.FormatHash(e.PathHash)+"\t/movie/opening.sfd\n",
		out)
}

func TestLookupCommand_Misses(t *testing.T) {
	out, err := run(t, "lookup", "00000000", "33ac2418")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 lookups did not resolve")
	assert.Contains(t, out, "not found: 00000000")
	assert.Contains(t, out, "/misc/fontdds/jpn_font.dds")

	_, err = run(t, "lookup", "--path-hash", "1", "33ac2418")
	assert.Error(t, err)

	_, err = run(t, "lookup", "not-hex")
	assert.Error(t, err)
}

func TestBuildCommand(t *testing.T) {
	dir := t.TempDir()
	list := filepath.Join(dir, "paths.txt")
	output := filepath.Join(dir, "out", "hashes.json.gz")
	require.NoError(t, os.WriteFile(list, []byte("# list\nsound/bgm/title.snd\nSOUND/BGM/TITLE.SND\ndata/item_table.bin\n"), 0644))

	out, err := run(t, "build", list, "-o", output)
	require.NoError(t, err)
	assert.Contains(t, out, "Entries written: 2 (1 duplicates dropped)")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	entries, err := resolve.DecodeSnapshot(data)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "/sound/bgm/title.snd", entries[0].Path)
	assert.Equal(t, address.Compute("sound/bgm/title.snd", true).FinalHash, entries[0].Hash)
}

func TestExportAndQueryCommands(t *testing.T) {
	dbFile := filepath.Join(t.TempDir(), "tadhash.db")

	out, err := run(t, "export", "--database", dbFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Entries exported: 40")

	_, err = run(t, "export", "--database", dbFile)
	assert.Error(t, err, "second export into a populated database should fail")

	out, err = run(t, "query", "--database", dbFile, "--tables")
	require.NoError(t, err)
	assert.Equal(t, "Available tables:\n  _metadata\n  resolution\n", out)

	out, err = run(t, "query", "--database", dbFile, "--schema", "resolution")
	require.NoError(t, err)
	assert.Contains(t, out, "ordinal")
	assert.Contains(t, out, "path_hash")

	out, err = run(t, "query", "--database", dbFile,
		"SELECT printf('%08x', hash), path FROM resolution WHERE path LIKE '%jpn_font%'")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "33ac2418\t/misc/fontdds/jpn_font.dds", lines[2])

	_, err = run(t, "query", "--database", dbFile)
	assert.Error(t, err)
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := run(t, "hash", "--log-level", "loud", "a.bin")
	assert.Error(t, err)
}
