package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/emitest/config"
	"github.com/kilianp07/emitest/core/compliance"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Query the results of a running campaign",
}

var resultsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all test results",
	RunE:  runResultsLs,
}

var resultsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show the result for one vehicle, e.g. Vehicle_1",
	Args:  cobra.ExactArgs(1),
	RunE:  runResultsGet,
}

func init() {
	resultsCmd.AddCommand(resultsLsCmd)
	resultsCmd.AddCommand(resultsGetCmd)
	rootCmd.AddCommand(resultsCmd)
}

// apiBase turns a listen address like ":8080" into a dialable base URL.
func apiBase(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}

func fetchResults(base, id string) ([]byte, error) {
	u := base + "/api/results"
	if id != "" {
		u += "?id=" + url.QueryEscape(id)
	}
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(u)
	if err != nil {
		return nil, fmt.Errorf("query results api: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("results api: %s", strings.TrimSpace(string(body)))
	}
	return body, nil
}

func verdict(compliant bool) string {
	if compliant {
		return "Pass"
	}
	return "Fail"
}

func runResultsLs(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	body, err := fetchResults(apiBase(cfg.API.Addr), "")
	if err != nil {
		return err
	}
	var entries []compliance.Entry
	if err := json.Unmarshal(body, &entries); err != nil {
		return err
	}
	for _, e := range entries {
		cmd.Printf("%s: %s\n", e.VehicleID, verdict(e.Compliant))
	}
	return nil
}

func runResultsGet(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	body, err := fetchResults(apiBase(cfg.API.Addr), args[0])
	if err != nil {
		return err
	}
	var e compliance.Entry
	if err := json.Unmarshal(body, &e); err != nil {
		return err
	}
	cmd.Printf("%s: %s (emission %.2f)\n", e.VehicleID, verdict(e.Compliant), e.Emission)
	return nil
}
