package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"programcheck/internal"
	"programcheck/internal/config"
	"programcheck/internal/connectors"
	"programcheck/internal/kbsync"
	"programcheck/internal/knowledge"
	"programcheck/internal/listener"
	"programcheck/internal/pipeline"
	"programcheck/internal/storage"
	"programcheck/internal/util"
)

func main() {
	cfg, err := config.Load()
	must(err)
	must(util.SetLogLevel(cfg.LogLevel))

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd := os.Args[1]
	switch cmd {
	case "validate":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "input file path or raw text")
		inType := fs.String("type", "text", "text|html|xlsx|pdf|eml")
		kbFile := fs.String("kb", "", "knowledge base file (overrides the stored one, run is not recorded)")
		output := fs.String("output", "", "output .xlsx or .json path (stdout when empty)")
		learn := fs.Bool("learn", false, "add unknown prefixes of accepted codes to the knowledge base")
		_ = fs.Parse(os.Args[2:])
		must(checkValidateFlags(*input, *kbFile, *learn))

		text, err := pipeline.ReadInput(*inType, *input)
		must(err)

		var res pipeline.Result
		if *kbFile != "" {
			blob, err := os.ReadFile(*kbFile)
			must(err)
			res = pipeline.Parse(text, string(blob), pipeline.Options{FlagUnknown: cfg.FlagUnknownCodes})
		} else {
			var runID int64
			res, runID, err = pipeline.NewProcessingService(db, cfg).ValidateText(internal.InputSource(*inType), text, *learn)
			must(err)
			fmt.Fprintf(os.Stderr, "run id=%d\n", runID)
		}
		must(writeDays(res.Days, *output))
		fmt.Fprintf(os.Stderr, "validate done days=%d programs=%d duplicates=%d noise=%d\n", len(res.Days), res.Stats.Programs, res.Stats.Duplicates, res.Stats.Noise)
	case "kb:show":
		blob, err := db.GetKnowledgeBase()
		must(err)
		fmt.Println(blob)
	case "kb:set":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		file := fs.String("file", "", "file with comma or newline separated prefixes")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*file) == "" {
			must(fmt.Errorf("--file is required"))
		}
		blob, err := os.ReadFile(*file)
		must(err)
		normalized := knowledge.Normalize(string(blob))
		must(db.SetKnowledgeBase(normalized))
		fmt.Printf("knowledge base set tokens=%d\n", len(knowledge.Tokens(normalized)))
	case "kb:add":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		codes := fs.String("codes", "", "comma separated prefixes")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*codes) == "" {
			must(fmt.Errorf("--codes is required"))
		}
		blob, err := db.GetKnowledgeBase()
		must(err)
		merged := knowledge.Merge(blob, strings.Split(*codes, ",")...)
		must(db.SetKnowledgeBase(merged))
		fmt.Printf("knowledge base updated tokens=%d\n", len(knowledge.Tokens(merged)))
	case "kb:pull":
		count, err := kbsync.NewSyncService(db, cfg).Pull(ctx)
		must(err)
		fmt.Printf("knowledge base pulled tokens=%d\n", count)
	case "kb:push":
		count, err := kbsync.NewSyncService(db, cfg).Push(ctx)
		must(err)
		fmt.Printf("knowledge base pushed tokens=%d\n", count)
	case "mail:fetch":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		provider := fs.String("provider", cfg.MailListenerProvider, "gmail|imap")
		label := fs.String("label", cfg.MailListenerLabel, "mailbox/label")
		max := fs.Int("max", 50, "max messages")
		_ = fs.Parse(os.Args[2:])
		conn, err := connectors.New(cfg, strings.ToLower(strings.TrimSpace(*provider)))
		must(err)
		fetch := connectors.NewFetchService(db, cfg.RawMailDir, conn)
		result, err := fetch.FetchAndStore(ctx, *label, *max)
		must(err)
		fmt.Printf("mail fetch done provider=%s fetched=%d stored=%d known=%d\n", *provider, result.Fetched, result.Stored, result.Known)
	case "mail:process":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		provider := fs.String("provider", cfg.MailListenerProvider, "gmail|imap")
		messageID := fs.String("messageId", "", "specific message-id")
		batch := fs.Int("batch", 20, "batch size")
		_ = fs.Parse(os.Args[2:])
		processor := pipeline.NewProcessingService(db, cfg)
		if strings.TrimSpace(*messageID) != "" {
			res, err := processor.ProcessByProviderMessageID(*provider, *messageID)
			must(err)
			fmt.Printf("processed email id=%d run=%d schedule=%t programs=%d\n", res.EmailID, res.RunID, res.Schedule, res.Programs)
			return
		}
		processedEmails, processedPrograms, err := processor.ProcessPending(*batch, *provider)
		must(err)
		fmt.Printf("processed pending emails=%d programs=%d\n", processedEmails, processedPrograms)
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		runID := fs.Int("runId", 0, "validation run id")
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if *runID == 0 || strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--runId and --out are required"))
		}
		rows, err := db.GetExportRows(*runID)
		must(err)
		if len(rows) == 0 {
			must(fmt.Errorf("no export rows for runId=%d", *runID))
		}
		must(pipeline.ExportRowsToXLSX(rows, *out))
		fmt.Printf("exported %d rows to %s\n", len(rows), *out)
	case "mail:listen":
		must(listener.NewService(db, cfg).Run(ctx))
	default:
		usage()
		os.Exit(1)
	}
}

func checkValidateFlags(input, kbFile string, learn bool) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("--input is required")
	}
	if kbFile != "" && learn {
		return fmt.Errorf("--learn only applies to the stored knowledge base, drop --kb to use it")
	}
	return nil
}

func writeDays(days []internal.DayData, output string) error {
	switch strings.ToLower(filepath.Ext(output)) {
	case "":
		return pipeline.WriteJSON(os.Stdout, days)
	case ".xlsx":
		return pipeline.ExportRowsToXLSX(pipeline.DaysToExportRows(days), output)
	case ".json":
		if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
			return err
		}
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		return pipeline.WriteJSON(f, days)
	default:
		return fmt.Errorf("unsupported output format: %s", output)
	}
}

func usage() {
	fmt.Println("usage: programcheck <command>")
	fmt.Println("commands:")
	fmt.Println("  validate --input=... [--type=text|html|xlsx|pdf|eml] [--kb=file] [--output=x.xlsx|x.json] [--learn]")
	fmt.Println("  kb:show")
	fmt.Println("  kb:set --file=prefixes.txt")
	fmt.Println("  kb:add --codes=CLAMO,PENTH")
	fmt.Println("  kb:pull")
	fmt.Println("  kb:push")
	fmt.Println("  mail:fetch --provider=gmail|imap --label=INBOX --max=50")
	fmt.Println("  mail:process --provider=gmail|imap [--messageId=...] [--batch=20]")
	fmt.Println("  mail:listen")
	fmt.Println("  export:xlsx --runId=1 --out=./out/result.xlsx")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
