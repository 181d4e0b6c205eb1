package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/eiannone/keyboard"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"github.com/rubpy/crawly"
	"github.com/rubpy/crawly/clog"

	cyoutube "github.com/rubpy/crawly-youtube-catalogue"
	"github.com/rubpy/crawly-youtube-catalogue/tree"
)

//////////////////////////////////////////////////

const logHeader = "[example] "

type options struct {
	channel    string
	info       cyoutube.ChannelInfo
	envFile    string
	descending bool
	pageSize   int64
	verbose    bool

	watch    bool
	interval time.Duration
}

func parseFlags() options {
	opts := options{info: cyoutube.DefaultChannelInfo}

	flag.StringVar(&opts.channel, "channel", opts.info.YouTubeChannelID, "YouTube channel ID, channel URL or @handle")
	flag.StringVar(&opts.info.SourceID, "source-id", opts.info.SourceID, "unique ID of the content source")
	flag.StringVar(&opts.info.Domain, "domain", opts.info.Domain, "domain providing the content")
	flag.StringVar(&opts.info.Title, "title", opts.info.Title, "channel title (empty: taken from YouTube)")
	flag.StringVar(&opts.info.Language, "language", opts.info.Language, "channel language")
	flag.StringVar(&opts.info.Description, "desc", opts.info.Description, "channel description")
	flag.StringVar(&opts.info.Thumbnail, "thumbnail", opts.info.Thumbnail, "channel thumbnail path or URL")
	flag.StringVar(&opts.envFile, "env", ".env", "optional file holding YOUTUBE_API_KEY")
	flag.BoolVar(&opts.descending, "descending", false, "sort topics in descending order")
	flag.Int64Var(&opts.pageSize, "page-size", 50, "items per catalogue page (max 50)")
	flag.BoolVar(&opts.verbose, "v", false, "debug logging")
	flag.BoolVar(&opts.watch, "watch", false, "keep rebuilding the channel on an interval")
	flag.DurationVar(&opts.interval, "interval", 30*time.Minute, "crawl interval in watch mode")
	flag.Parse()

	return opts
}

func main() {
	opts := parseFlags()

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.DateTime,
		}),
	)

	if err := godotenv.Load(opts.envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn(logHeader+"could not load env file", slog.String("path", opts.envFile), tint.Err(err))
	}

	credential := os.Getenv("YOUTUBE_API_KEY")
	if credential == "" {
		logger.Error(logHeader + "YOUTUBE_API_KEY is not set")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	channelID, err := resolveChannel(ctx, logger, credential, opts.channel)
	if err != nil {
		logger.Error(logHeader+"could not resolve channel", slog.String("channel", opts.channel), tint.Err(err))
		os.Exit(1)
	}
	opts.info.YouTubeChannelID = channelID

	if opts.watch {
		err = watch(ctx, logger, opts, credential)
	} else {
		err = buildOnce(ctx, logger, opts, credential)
	}
	if err != nil {
		logger.Error(logHeader+"failed", tint.Err(err))
		os.Exit(1)
	}
}

//////////////////////////////////////////////////

// resolveChannel turns the -channel flag into a channel ID, fetching the
// channel page when given a URL or an @handle.
func resolveChannel(ctx context.Context, logger *slog.Logger, credential string, s string) (string, error) {
	handle, err := cyoutube.ParseHandle(s)
	if err != nil {
		return "", err
	}
	if handle.Type == cyoutube.HandleChannelID {
		return handle.Value, nil
	}

	cr, err := cyoutube.NewCrawler(
		cyoutube.WithLogger(logger),
		cyoutube.WithCredential(credential),
	)
	if err != nil {
		return "", fmt.Errorf("cyoutube.NewCrawler: %w", err)
	}

	index, err := cr.FetchChannelIndex(ctx, handle.Value)
	if err != nil {
		return "", fmt.Errorf("cyoutube.FetchChannelIndex: %w", err)
	}

	logger.Info(logHeader+"resolved channel",
		slog.String("channel", s),
		slog.String("channelID", index.ChannelID),
	)

	return index.ChannelID, nil
}

//////////////////////////////////////////////////

func buildOnce(ctx context.Context, logger *slog.Logger, opts options, credential string) error {
	b := &cyoutube.ChannelBuilder{
		Logger:     logger,
		Descending: opts.descending,
	}
	b.Enumerator.PageSize = opts.pageSize

	root, err := b.Build(ctx, opts.info, credential)
	if err != nil {
		return fmt.Errorf("ChannelBuilder.Build: %w", err)
	}

	logger.Info(logHeader+"channel built",
		slog.String("title", root.Title),
		slog.Int("topics", root.Count(tree.KindTopic)),
		slog.Int("videos", root.Count(tree.KindVideo)),
	)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	return enc.Encode(root)
}

//////////////////////////////////////////////////

func watch(ctx context.Context, logger *slog.Logger, opts options, credential string) error {
	settings := cyoutube.DefaultSettings
	settings.PageSize = opts.pageSize
	settings.SortDescending = opts.descending
	settings.MinimumRebuildDelay = opts.interval

	cr, err := cyoutube.NewCrawler(
		cyoutube.WithLogger(logger),
		cyoutube.WithCredential(credential),
		cyoutube.WithChannelInfo(opts.info),
		cyoutube.WithSettings(settings),
	)
	if err != nil {
		return fmt.Errorf("cyoutube.NewCrawler: %w", err)
	}

	handle := cyoutube.ChannelID(opts.info.YouTubeChannelID)
	if _, err := cr.Track(ctx, handle); err != nil {
		return fmt.Errorf("cyoutube.Track: %w", err)
	}

	go report(ctx, cr)

	printHelp(handle)

	sessionSettings := crawly.SessionSettings{
		Interval:          opts.interval,
		SinglePassTimeout: settings.BuildTimeout + 30*time.Second,
	}
	if err := cr.Start(ctx, sessionSettings); err != nil {
		return fmt.Errorf("cyoutube.Start: %w", err)
	}
	defer cr.Stop(ctx)

	keys, err := keyboard.GetKeys(10)
	if err != nil {
		return fmt.Errorf("keyboard.GetKeys: %w", err)
	}
	defer keyboard.Close()

	for {
		select {
		case <-ctx.Done():
			return nil

		case e := <-keys:
			if e.Err != nil {
				return fmt.Errorf("keyboard: %w", e.Err)
			}

			switch {
			case e.Rune == 'q' || e.Key == keyboard.KeyEsc || e.Key == keyboard.KeyCtrlC:
				cr.Log(ctx, clog.Params{
					Message: logHeader + "quitting",
					Level:   slog.LevelInfo,
				})
				return nil

			case e.Key == keyboard.KeySpace:
				verb := "paused"
				if cr.Paused() {
					cr.Resume(ctx)
					verb = "resumed"
				} else {
					cr.Pause(ctx)
				}

				cr.Log(ctx, clog.Params{
					Message: fmt.Sprintf(logHeader+"%T: %s", cr, verb),
					Level:   slog.LevelInfo,
				})

			case e.Rune == 'i':
				lp := clog.Params{
					Message: fmt.Sprintf(logHeader+"%T: immediate", cr),
					Level:   slog.LevelInfo,
				}
				_, lp.Err = cr.Immediate(ctx, 0)
				cr.Log(ctx, lp)

			case e.Rune == 'p':
				root, ok := cr.Tree(handle)
				if !ok {
					cr.Log(ctx, clog.Params{
						Message: logHeader + "tree not built yet",
						Level:   slog.LevelInfo,
					})
					continue
				}

				printTree(root)

			case e.Key == keyboard.KeyEnter:
				fmt.Println()
			}
		}
	}
}

func report(ctx context.Context, cr *cyoutube.Crawler) {
	l := cr.Listen()
	defer l.Discard()

	ch := l.Channel()
	for {
		select {
		case <-ctx.Done():
			return

		case result, ok := <-ch:
			if !ok {
				return
			}

			built := map[crawly.Handle]string{}
			for _, tr := range result.Entities {
				entity := tr.Entity.Value

				data, ok := entity.Data.(cyoutube.EntityData)
				if !ok || data.Tree == nil {
					continue
				}

				built[entity.Handle] = fmt.Sprintf("%d topics, %d videos", data.Topics, data.Videos)
			}

			cr.Log(ctx, clog.Params{
				Message: fmt.Sprintf(logHeader+"%T: result", cr),
				Level:   slog.LevelInfo,

				Values: clog.ParamGroup{
					"sessionID": result.SessionID,
					"channels":  built,
				},
			})
		}
	}
}

func printTree(root *tree.Node) {
	root.Walk(func(n *tree.Node, depth int) bool {
		for i := 0; i < depth; i++ {
			fmt.Print("  ")
		}
		fmt.Printf("%s %s\n", n.Kind, n.Title)

		return true
	})
}

func printHelp(handle cyoutube.Handle) {
	fmt.Println("========================================")
	fmt.Println(" Controls:")
	fmt.Println("   Q     --- quit")
	fmt.Println("   Space --- pause/resume")
	fmt.Println("   I     --- trigger an immediate crawl")
	fmt.Println("   P     --- print the current tree")

	fmt.Println("========================================")
	fmt.Println(" Channel:")
	fmt.Println("  ", handle.String())

	fmt.Println("========================================")
	fmt.Println()
}
