package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/jsphweid/fugue/constants"
	"github.com/jsphweid/fugue/evolve"
	"github.com/jsphweid/fugue/fitness"
	"github.com/jsphweid/fugue/model"
	"github.com/jsphweid/fugue/theory"
)

var (
	addr        string
	serveConfig = evolve.DefaultConfig()
)

func init() {
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "address to listen on")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves evolution over HTTP",
	Long:  `Serves POST /evolve and GET /styles. Runs use the loaded config, with request fields on top.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		serveConfig = cfg
		logger.Info("listening", "addr", addr)
		return http.ListenAndServe(addr, cors.Default().Handler(NewRouter()))
	},
}

func NewRouter() *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/evolve", HandleEvolve).Methods("POST")
	router.HandleFunc("/styles", HandleStyles).Methods("GET")
	return router
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("could not write response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, model.ErrorResponse{Error: err.Error()})
}

func HandleStyles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.StylesResponse{Styles: fitness.Styles()})
}

// requestConfig puts the fields set in the request on top of base.
func requestConfig(base evolve.Config, input model.EvolveRequestBody) (evolve.Config, error) {
	cfg := base
	if input.Key != "" {
		key, err := theory.ParseKey(input.Key)
		if err != nil {
			return cfg, err
		}
		cfg.Key = key
	}
	if input.Bars != 0 {
		cfg.Bars = input.Bars
	}
	if input.Generations != 0 {
		cfg.Generations = input.Generations
	}
	if cfg.Generations > constants.MaxServeGenerations {
		return cfg, fmt.Errorf("%w: at most %d generations", evolve.ErrConfig, constants.MaxServeGenerations)
	}
	if input.PopulationSize != 0 {
		cfg.PopulationSize = input.PopulationSize
	}
	if cfg.PopulationSize > constants.MaxServePopulation {
		return cfg, fmt.Errorf("%w: at most %d candidates", evolve.ErrConfig, constants.MaxServePopulation)
	}
	if input.Seed != 0 {
		cfg.Seed = input.Seed
	}
	return cfg, cfg.Validate()
}

func requestInputs(cfg evolve.Config, input model.EvolveRequestBody) (fitness.Inputs, error) {
	in := fitness.Inputs{Key: cfg.Key, Bars: cfg.Bars}
	var err error
	if in.Melody, err = model.BuildTrack(cfg.Key, input.Melody); err != nil {
		return in, fmt.Errorf("melody: %w", err)
	}
	if in.From, err = model.BuildTrack(cfg.Key, input.From); err != nil {
		return in, fmt.Errorf("from: %w", err)
	}
	if in.To, err = model.BuildTrack(cfg.Key, input.To); err != nil {
		return in, fmt.Errorf("to: %w", err)
	}
	return in, nil
}

func HandleEvolve(w http.ResponseWriter, r *http.Request) {
	var input model.EvolveRequestBody
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("could not read request body: %w", err))
		return
	}

	cfg, err := requestConfig(serveConfig, input)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	in, err := requestInputs(cfg, input)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	name := input.Style
	if name == "" {
		name = "C"
	}
	style, err := fitness.Parse(name, in)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	e, err := evolve.New(cfg, style, evolve.WithLogger(logger))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	res, err := e.Run()
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, fitness.ErrEmptyMelody) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}

	writeJSON(w, http.StatusOK, model.EvolveResponse{
		Fitness:      res.Fitness,
		Generation:   res.Generation,
		Bars:         res.Best.Body(),
		Text:         res.Best.String(),
		ChordsPerBar: chordsPerBar(arrange(style, in, res.Best)),
	})
}
