package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/quakecase/engine/internal/ingest"
	"github.com/quakecase/engine/internal/pipeline"
	"github.com/quakecase/engine/internal/replay"
	"github.com/quakecase/engine/internal/similarity"
	"github.com/quakecase/engine/internal/situation"
	"github.com/spf13/cobra"
)

var (
	replayCaseID               string
	replayCasePath             string
	replayMemoryDir            string
	replayMinComparableVersion string
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Retrospectively replay a case study against a historical memory",
	Long: `Replay runs a case study phase-by-phase against a historical memory
that excludes the case itself, comparing the system's output at each phase
to what actually happened afterward (spec §4.9, C11).`,
	Run: runReplay,
}

func init() {
	replayCmd.Flags().StringVar(&replayCaseID, "case-id", "", "Identifier for the case study under replay (required)")
	replayCmd.Flags().StringVar(&replayCasePath, "file", "", "Path to the case study JSON file being replayed (required)")
	replayCmd.Flags().StringVar(&replayMemoryDir, "memory-dir", "", "Directory of case study JSON files forming the historical memory (required)")
	replayCmd.Flags().StringVar(&replayMinComparableVersion, "min-comparable-version", "", "Minimum algorithm version a replay log must meet to be considered comparable (optional)")
	_ = replayCmd.MarkFlagRequired("case-id")
	_ = replayCmd.MarkFlagRequired("file")
	_ = replayCmd.MarkFlagRequired("memory-dir")
}

func runReplay(cmd *cobra.Command, args []string) {
	if err := setupLog(logLevelFlags); err != nil {
		HandleError(err, "Logging setup error")
	}

	raw, err := readCaseStudyFile(replayCasePath)
	if err != nil {
		HandleError(err, "Failed to read case study file")
	}

	historicalMemory, err := loadHistoricalMemory(replayMemoryDir, replayCaseID)
	if err != nil {
		HandleError(err, "Failed to load historical memory")
	}

	engine := similarity.NewDefault()
	phasedPipeline := pipeline.NewPhasedPipeline(engine)
	evaluator := replay.NewEvaluator(phasedPipeline)

	if replayMinComparableVersion != "" {
		if err := evaluator.SetMinComparableVersion(replayMinComparableVersion); err != nil {
			HandleError(err, "Invalid minimum comparable version")
		}
		comparable, err := evaluator.IsComparable()
		if err != nil {
			HandleError(err, "Failed to check algorithm version comparability")
		}
		if !comparable {
			HandleError(fmt.Errorf("algorithm version %s does not meet minimum comparable version %s",
				replay.CurrentAlgorithmVersion, replayMinComparableVersion), "Replay aborted")
		}
	}

	logs := evaluator.ReplayCase(context.Background(), replayCaseID, raw, historicalMemory)

	out, err := json.MarshalIndent(logs, "", "  ")
	if err != nil {
		HandleError(err, "Failed to marshal replay logs")
	}
	fmt.Println(string(out))
}

// loadHistoricalMemory reads every *.json file in dir except the one
// named for excludeCaseID and flattens each case study's time slices into
// experience units. A replay's historical memory must exclude the case
// being replayed (§4.9) to avoid leaking its own outcome into its cohort.
func loadHistoricalMemory(dir, excludeCaseID string) ([]situation.ExperienceUnit, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read memory dir: %w", err)
	}

	ingestor := ingest.New()
	var units []situation.ExperienceUnit
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		caseID := fileCaseID(entry.Name())
		if caseID == excludeCaseID {
			continue
		}
		raw, err := readCaseStudyFile(dir + "/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name(), err)
		}
		slices, _ := ingestor.Ingest(raw)
		finalOutcomes := lastOutcomes(slices)
		for _, ts := range slices {
			units = append(units, situation.FromTimeSlice(ts, caseID, finalOutcomes))
		}
	}
	return units, nil
}

func fileCaseID(fileName string) string {
	name := fileName
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[:i]
		}
	}
	return name
}

func lastOutcomes(slices []situation.TimeSlice) *situation.Outcomes {
	for i := len(slices) - 1; i >= 0; i-- {
		if slices[i].Situation.Outcomes.Casualties.Present {
			out := slices[i].Situation.Outcomes
			return &out
		}
	}
	return nil
}
