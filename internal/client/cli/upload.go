package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/itskiranbabu/InstaReelFlow/internal/client/preview"
	"github.com/itskiranbabu/InstaReelFlow/internal/client/upload"
)

// Upload runs the upload page: select a clip, wait for it to pass the type
// and duration checks, describe it, submit. A failed submission keeps the
// staged file and description so the user can just retry.
func (a *App) Upload(ctx context.Context) error {
	user := a.session.CurrentUser()
	if user == nil {
		fmt.Println("Log in to upload videos")
		return nil
	}

	type probeResult struct {
		d   time.Duration
		err error
	}
	probed := make(chan probeResult, 1)

	manager := preview.NewManager(
		preview.FFProbe{Command: a.config.ProbeCommand},
		a.config.PreviewDir,
		a.log,
	)
	manager.SetNotify(func(_ *preview.Handle, d time.Duration, err error) {
		probed <- probeResult{d: d, err: err}
	})
	defer manager.Close()

	path, err := GetSimpleText(a.reader, "Enter path to a video file (mp4, mov, ...)", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	handle, err := manager.Select(ctx, path)
	if err != nil {
		if errors.Is(err, preview.ErrNotVideo) {
			fmt.Println("Please select a video file")
			return nil
		}
		log.Printf("error: %v", err)
		return err
	}

	// Duration arrives asynchronously once the metadata is read.
	select {
	case r := <-probed:
		if r.err != nil {
			if errors.Is(r.err, preview.ErrDurationExceeded) {
				fmt.Println("Video must be at most 60 seconds")
			} else {
				log.Printf("Could not check the video: %v", r.err)
			}
			return nil
		}
		fmt.Printf("Staged %s (%s, %d bytes)\n", path, r.d.Round(time.Second), handle.Size())
	case <-ctx.Done():
		return ctx.Err()
	}

	description, err := GetSimpleText(a.reader, "Write a caption for your video (max 500 characters)", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	pipe := upload.NewPipeline(a.api, a.log)
	pipe.Attach(handle)
	pipe.SetDescription(description)

	for {
		rctx, cancel := a.requestCtx(ctx)
		err := pipe.Submit(rctx, user)
		cancel()

		if err == nil {
			fmt.Printf("Video shared (id %s)\n", pipe.MediaID())
			return nil
		}

		switch {
		case errors.Is(err, upload.ErrDescriptionRequired), errors.Is(err, upload.ErrDescriptionTooLong):
			fmt.Println(pipe.LastError())
			description, err = GetSimpleText(a.reader, "Write a caption for your video (max 500 characters)", os.Stdout)
			if err != nil {
				return err
			}
			pipe.SetDescription(description)

		case errors.Is(err, upload.ErrNoFile), errors.Is(err, upload.ErrFileNotReady):
			fmt.Println(pipe.LastError())
			return nil

		default:
			fmt.Println(pipe.LastError())
			retry, rerr := GetSimpleText(a.reader, "Retry? (y/n)", os.Stdout)
			if rerr != nil || retry != "y" {
				return err
			}
		}
	}
}
