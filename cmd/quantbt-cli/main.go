package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"quantbt/internal/backtest"
	"quantbt/internal/config"
	"quantbt/internal/domain"
	"quantbt/internal/export"
	"quantbt/internal/ingest"
	"quantbt/internal/store"
	"quantbt/internal/strategy"
	"quantbt/internal/strategy/builtins"
	"quantbt/internal/util"
)

const version = "0.3.0"

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: quantbt-cli <command> [options]\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  version    Print the CLI version\n")
		fmt.Fprintf(os.Stderr, "  run        Run a backtest over a CSV or JSON bar file\n")
		fmt.Fprintf(os.Stderr, "  export     Re-serialize stored quotes to csv, json, or parquet\n")
		fmt.Fprintf(os.Stderr, "  fetch      Fetch daily bars from Alpaca into the quote store\n")
		fmt.Fprintf(os.Stderr, "\n")
	}

	if len(os.Args) < 2 {
		flag.Usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "version":
		fmt.Printf("quantbt-cli %s\n", version)

	case "run":
		err = cmdRun(os.Args[2:])

	case "export":
		err = cmdExport(os.Args[2:])

	case "fetch":
		err = cmdFetch(os.Args[2:])

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		flag.Usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "quantbt-cli %s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

func cmdRun(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	csvPath := fs.String("csv", "", "CSV bar file to run over")
	jsonPath := fs.String("json", "", "JSON bar file to run over")
	stratName := fs.String("strategy", "buy-hold", "strategy name (buy-hold, sma-cross)")
	equity := fs.Float64("equity", 10000, "initial equity")
	fast := fs.Int("fast", 10, "fast SMA period (sma-cross)")
	slow := fs.Int("slow", 20, "slow SMA period (sma-cross)")
	commissionFixed := fs.Float64("commission-fixed", 0, "fixed commission per fill")
	commissionBps := fs.Float64("commission-bps", 0, "commission in basis points of notional")
	slippageBps := fs.Float64("slippage-bps", 0, "slippage in basis points")
	symbol := fs.String("symbol", "", "symbol label for the saved result")
	dbPath := fs.String("db", "", "SQLite path to persist the result (optional)")
	fs.Parse(args)

	var (
		series *domain.BarSeries
		err    error
		source string
	)
	switch {
	case *csvPath != "":
		series, err = ingest.FromCSV(*csvPath)
		source = *csvPath
	case *jsonPath != "":
		series, err = ingest.FromJSON(*jsonPath)
		source = *jsonPath
	default:
		return errors.New("one of -csv or -json is required")
	}
	if err != nil {
		return err
	}
	if series.IsEmpty() {
		return fmt.Errorf("no bars in %s", source)
	}

	strat, err := buildStrategy(*stratName, *fast, *slow)
	if err != nil {
		return err
	}

	exec := backtest.ExecParams{
		CommissionFixed: *commissionFixed,
		CommissionBps:   *commissionBps,
		SlippageBps:     *slippageBps,
	}
	result := backtest.NewEngine(*equity, exec).Run(series, strat)

	var returnPct float64
	if result.InitialEquity > 0 {
		returnPct = (result.FinalEquity/result.InitialEquity - 1) * 100
	}

	out := struct {
		Source   string  `json:"source"`
		Bars     int     `json:"bars"`
		Strategy string  `json:"strategy"`
		Return   float64 `json:"return_pct"`
		backtest.Result
	}{
		Source:   source,
		Bars:     series.Len(),
		Strategy: *stratName,
		Return:   returnPct,
		Result:   result,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return err
	}

	if *dbPath != "" {
		label := strings.ToUpper(*symbol)
		if label == "" {
			label = strings.ToUpper(strings.TrimSuffix(filepath.Base(source), filepath.Ext(source)))
		}
		st, err := store.NewSQLiteStore(*dbPath)
		if err != nil {
			return err
		}
		defer st.Close()
		rec := store.ResultRecord{
			ID:             uuid.NewString(),
			Symbol:         label,
			Strategy:       *stratName,
			InitialEquity:  result.InitialEquity,
			FinalEquity:    result.FinalEquity,
			TradesExecuted: result.TradesExecuted,
			CreatedAt:      time.Now().UTC(),
		}
		if err := st.SaveResult(context.Background(), rec); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "result %s saved to %s\n", rec.ID, *dbPath)
	}
	return nil
}

func buildStrategy(name string, fast, slow int) (strategy.Strategy, error) {
	switch name {
	case "buy-hold":
		return builtins.NewBuyHold(), nil
	case "sma-cross":
		return builtins.NewSMACross(fast, slow), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
}

func cmdExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	dbPath := fs.String("db", "data/quantbt.db", "SQLite path to read quotes from")
	symbol := fs.String("symbol", "", "symbol to export (required)")
	out := fs.String("out", "", "output file; format inferred from extension unless -format is set")
	format := fs.String("format", "", "csv, json, or parquet")
	fs.Parse(args)

	if *symbol == "" {
		return errors.New("-symbol is required")
	}
	if *out == "" {
		return errors.New("-out is required")
	}

	st, err := store.NewSQLiteStore(*dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	sym := strings.ToUpper(*symbol)
	series, err := st.LoadQuotes(context.Background(), sym)
	if err != nil {
		return err
	}
	if series.IsEmpty() {
		return fmt.Errorf("no quotes stored for %s", sym)
	}

	f := *format
	if f == "" {
		f = strings.TrimPrefix(filepath.Ext(*out), ".")
	}
	switch f {
	case "csv":
		exp := export.CSVExporter{Path: *out}
		err = exp.ExportSeries(series)
	case "json":
		err = export.ToJSONFile(*out, series)
	case "parquet":
		err = export.ToParquetFile(*out, series)
	default:
		return fmt.Errorf("unknown format %q (want csv, json, or parquet)", f)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "exported %d bars for %s to %s\n", series.Len(), sym, *out)
	return nil
}

func cmdFetch(args []string) error {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)
	cfgPath := fs.String("config", "config/quantbt.yaml", "config file with Alpaca credentials")
	symbol := fs.String("symbol", "", "symbol to fetch (required)")
	startStr := fs.String("start", "", "start date YYYY-MM-DD (default one year ago)")
	endStr := fs.String("end", "", "end date YYYY-MM-DD (default today)")
	dbPath := fs.String("db", "", "SQLite path (default from config)")
	fs.Parse(args)

	if *symbol == "" {
		return errors.New("-symbol is required")
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		// Credentials may come entirely from the environment.
		cfg = config.Default()
	}
	if cfg.Alpaca.APIKey == "" || cfg.Alpaca.APISecret == "" {
		return errors.New("alpaca credentials missing (set alpaca.api_key/api_secret or APCA_API_KEY_ID/APCA_API_SECRET_KEY)")
	}

	end := time.Now().UTC().Truncate(24 * time.Hour)
	if *endStr != "" {
		if end, err = time.Parse("2006-01-02", *endStr); err != nil {
			return fmt.Errorf("parsing -end: %w", err)
		}
	}
	start := end.AddDate(-1, 0, 0)
	if *startStr != "" {
		if start, err = time.Parse("2006-01-02", *startStr); err != nil {
			return fmt.Errorf("parsing -start: %w", err)
		}
	}

	log := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	src := ingest.NewAlpacaSource(cfg.Alpaca.APIKey, cfg.Alpaca.APISecret, cfg.Alpaca.DataURL, cfg.Alpaca.RateLimitPerMin, log)

	sym := strings.ToUpper(*symbol)
	series, err := src.DailyBars(context.Background(), sym, start, end)
	if err != nil {
		return err
	}
	if series.IsEmpty() {
		return fmt.Errorf("no bars returned for %s between %s and %s", sym, start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	path := *dbPath
	if path == "" {
		path = cfg.Storage.SQLitePath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	st, err := store.NewSQLiteStore(path)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.SaveQuotes(context.Background(), sym, series.Bars()); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "fetched %d bars for %s into %s\n", series.Len(), sym, path)
	return nil
}
