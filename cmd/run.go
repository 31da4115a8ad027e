package cmd

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pickscope/pickscope/internal/utils"
	"github.com/pickscope/pickscope/pkg/fetch"
	"github.com/pickscope/pickscope/pkg/pick"
	"github.com/pickscope/pickscope/pkg/plan"
	"github.com/pickscope/pickscope/pkg/runlog"
	"github.com/pickscope/pickscope/pkg/store"
	"github.com/pickscope/pickscope/pkg/validate"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Scrape plan archives and reconcile picks into the store",
	Long: `Scrapes the selected plan archive pages with a headless browser,
validates the extracted picks against the selected time window, and merges
them into the JSON store: insert if new, settle the result if it was
pending, skip otherwise.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		planFlag, _ := cmd.Flags().GetString("plan")
		durationFlag, _ := cmd.Flags().GetString("duration")

		storePath := viper.GetString("store.path")
		if v, _ := cmd.Flags().GetString("store"); v != "" {
			storePath = v
		}
		logPath := viper.GetString("log.path")
		if v, _ := cmd.Flags().GetString("logfile"); v != "" {
			logPath = v
		}

		return runPipeline(planFlag, durationFlag, storePath, logPath)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringP("plan", "p", "ALL", "Plan to scrape (STANDARD, PREMIUM, ELITE or ALL)")
	runCmd.Flags().StringP("duration", "d", "ALL", "Time window (YESTERDAY, WEEK, MONTH or ALL)")
	runCmd.Flags().String("store", "", "Path to the JSON store (overrides store.path)")
	runCmd.Flags().String("logfile", "", "Path to the run log (overrides log.path)")
}

func runPipeline(planFlag, durationFlag, storePath, logPath string) error {
	log, logFile, err := runlog.Open(logPath, "PICK SYNC")
	if err != nil {
		return err
	}
	defer logFile.Close()
	defer log.Infof("--- Session finished ---")

	duration := validate.ParseDuration(durationFlag)
	log.Infof("Sync started: plan=%s | mode=%s", planFlag, duration)

	plans := planList(planFlag)

	session, err := fetch.NewSession(context.Background(), fetch.TipsterParser{}, fetch.Options{
		UserAgent:  viper.GetString("scraper.user_agent"),
		NavTimeout: viper.GetDuration("scraper.nav_timeout"),
		Settle:     viper.GetDuration("scraper.settle_delay"),
	}, log)
	if err != nil {
		log.Errorf("Critical engine failure: %v", err)
		return err
	}
	defer session.Close()

	throttle := fetch.NewThrottle(
		viper.GetDuration("scraper.plan_delay"),
		viper.GetDuration("scraper.jitter"),
	)

	// Plans run strictly sequentially, one tab at a time. That bounds
	// browser resources and keeps the run log readable.
	now := time.Now()
	var batch []pick.Validated
	for _, p := range plans {
		raws := session.FetchPlan(p, duration)
		valid := validate.Batch(raws, p.Name, duration, now, log)
		log.Successf("Captured %d/%d valid picks for %s", len(valid), len(raws), p.Name)
		batch = append(batch, valid...)
		throttle.Wait()
	}

	res := store.Load(storePath)
	switch res.State {
	case store.Missing:
		log.Warnf("Store %s not found, starting empty", storePath)
	case store.Corrupt:
		// Deliberate policy: continue with an empty store so settlement
		// sync keeps running. The next write can re-insert the whole
		// history, so a corrupt store file is an operational incident,
		// not an auto-healed condition.
		log.Errorf("Store %s is unreadable, continuing with an empty store: %v", storePath, res.Err)
	}

	stats := store.NewReconciler(log).Apply(res.Store, batch)

	log.Infof("Run complete:")
	log.Successf("- new picks: %d", stats.Added)
	log.Updatef("- settled results: %d", stats.Updated)
	log.Infof("- already processed: %d", stats.Skipped)

	wrote, err := store.Persist(storePath, res.Store, stats)
	if err != nil {
		log.Errorf("Failed to persist store: %v", err)
		return err
	}
	if wrote {
		log.Successf("Store persisted to %s", storePath)
	}
	return nil
}

// planList resolves the --plan flag and applies per-plan URL overrides
// from the config file (plans.<name>.url).
func planList(flag string) []plan.Plan {
	plans := plan.Select(flag)
	for i := range plans {
		key := "plans." + strings.ToLower(plans[i].Name) + ".url"
		if u := viper.GetString(key); u != "" {
			utils.Log.Debugf("Overriding %s URL with %s", plans[i].Name, u)
			plans[i].URL = u
		}
	}
	return plans
}
