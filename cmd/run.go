package cmd

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Vampire-js/techfiesta/pkg/fileurl"
	"github.com/Vampire-js/techfiesta/pkg/util"

	"github.com/radovskyb/watcher"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type runFlags struct {
	dir     string
	port    string
	runMode string
	config  string
}

// configSearchOrder is where the run command looks for a config file when
// none is given on the command line.
var configSearchOrder = []string{
	"config/config-dev.yaml",
	"config.yaml",
	"config/config.yaml",
}

func init() {
	runEnv := new(runFlags)

	var runCommand = &cobra.Command{
		Use:   "run [-c config_file] [-d working_dir] [-p port]",
		Short: "Run service",
		Run: func(cmd *cobra.Command, args []string) {
			if runEnv.dir != "" {
				if err := os.Chdir(runEnv.dir); err != nil {
					bootstrapLogger.Error("failed to change the current working directory", zap.Error(err))
				}
				bootstrapLogger.Info("working directory changed", zap.String("dir", runEnv.dir))
			}

			if runEnv.config == "" {
				runEnv.config = resolveConfigPath()
			}

			s, err := NewServer(runEnv)
			if err != nil {
				bootstrapLogger.Error("api service start err", zap.Error(err))
				return
			}

			go watchConfig(runEnv, &s)

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit
			s.logger.Info("shutdown signal received")
			s.sc.SendCloseSignal(nil)

			if err := s.sc.WaitClosed(); err != nil {
				s.logger.Error("shutdown completed with error", zap.Error(err))
			} else {
				s.logger.Info("service shut down gracefully")
			}
		},
	}

	rootCmd.AddCommand(runCommand)
	fs := runCommand.Flags()
	fs.StringVarP(&runEnv.dir, "dir", "d", "", "run dir")
	fs.StringVarP(&runEnv.port, "port", "p", "", "run port")
	fs.StringVarP(&runEnv.runMode, "mode", "m", "", "run mode")
	fs.StringVarP(&runEnv.config, "config", "c", "", "config file")
}

// resolveConfigPath returns the first existing config file, writing the
// embedded default when none is found.
func resolveConfigPath() string {
	for _, candidate := range configSearchOrder {
		if fileurl.IsExist(candidate) {
			return candidate
		}
	}

	path := "config/config.yaml"
	bootstrapLogger.Warn("config file not found, creating default config", zap.String("path", path))
	if err := writeDefaultConfig(path); err != nil {
		bootstrapLogger.Error("config file auto create error", zap.Error(err))
	}
	return path
}

func writeDefaultConfig(path string) error {
	// the shipped default gets a fresh random token key
	content := strings.Replace(configDefault, "techfiesta-Auth-Token", util.GetRandomString(32), 1)

	if err := fileurl.CreatePath(path, os.ModePerm); err != nil {
		return err
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		return err
	}
	defer file.Close()
	if _, err := file.WriteString(content); err != nil {
		return err
	}
	bootstrapLogger.Info("default config created", zap.String("path", path))
	return nil
}

// watchConfig restarts the server whenever the config file is rewritten.
// The *Server pointer is swapped in place so the signal handler in Run
// always shuts down the live instance.
func watchConfig(runEnv *runFlags, s **Server) {
	w := watcher.New()
	w.SetMaxEvents(1)
	w.FilterOps(watcher.Write)

	go func() {
		for {
			select {
			case event := <-w.Event:
				(*s).logger.Info("config changed, restarting",
					zap.String("event", event.Op.String()),
					zap.String("file", event.Path))
				(*s).sc.SendCloseSignal(nil)

				next, err := NewServer(runEnv)
				if err != nil {
					bootstrapLogger.Error("service restart err", zap.Error(err))
					continue
				}
				*s = next
			case err := <-w.Error:
				(*s).logger.Error("config watcher error", zap.Error(err))
			case <-w.Closed:
				bootstrapLogger.Info("config watcher closed")
			}
		}
	}()

	if err := w.Add(runEnv.config); err != nil {
		(*s).logger.Error("config watcher file error", zap.Error(err))
	}
	if err := w.Start(time.Second * 5); err != nil {
		(*s).logger.Error("config watcher start error", zap.Error(err))
	}
}
