package mapper_test

import (
	"encoding/json"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/remediarr/remediarr/internal/http/dto"
	"github.com/remediarr/remediarr/internal/mapper"
	"github.com/remediarr/remediarr/internal/model"
)

var _ = Describe("EventMapper", func() {
	var m *mapper.EventMapper

	BeforeEach(func() {
		m = mapper.NewEventMapper()
	})

	decode := func(raw string) dto.IssueWebhook {
		var payload dto.IssueWebhook
		Expect(json.Unmarshal([]byte(raw), &payload)).To(Succeed())
		return payload
	}

	Describe("event kind", func() {
		DescribeTable("maps notification_type",
			func(notificationType string, expected model.EventKind) {
				event, err := m.Map(dto.IssueWebhook{
					NotificationType: notificationType,
					Media:            dto.MediaPayload{MediaType: "movie", TmdbID: 550},
				})
				Expect(err).NotTo(HaveOccurred())
				Expect(event.Kind).To(Equal(expected))
			},
			Entry("issue created", "ISSUE_CREATED", model.EventIssueReported),
			Entry("issue comment", "ISSUE_COMMENT", model.EventIssueCommented),
			Entry("issue resolved", "ISSUE_RESOLVED", model.EventIssueResolved),
			Entry("issue reopened", "ISSUE_REOPENED", model.EventIssueReopened),
			Entry("lowercase accepted", "issue_created", model.EventIssueReported),
			Entry("unknown", "TEST_NOTIFICATION", model.EventUnknown),
		)

		It("falls back to the event text when notification_type is absent", func() {
			event, err := m.Map(dto.IssueWebhook{
				Event: "New Comment on Issue",
				Media: dto.MediaPayload{MediaType: "movie", TmdbID: 550},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(event.Kind).To(Equal(model.EventIssueCommented))
		})
	})

	Describe("media kind", func() {
		DescribeTable("explicit media_type",
			func(mediaType string, expected model.MediaKind) {
				event, err := m.Map(dto.IssueWebhook{
					Media: dto.MediaPayload{MediaType: mediaType, TvdbID: 1, TmdbID: 1, SeasonNumber: 1, EpisodeNumber: 1},
				})
				Expect(err).NotTo(HaveOccurred())
				Expect(event.MediaKind).To(Equal(expected))
			},
			Entry("tv", "tv", model.MediaKindTV),
			Entry("show", "show", model.MediaKindTV),
			Entry("series", "series", model.MediaKindTV),
			Entry("movie", "movie", model.MediaKindMovie),
		)

		It("infers TV from a tvdb id", func() {
			event, err := m.Map(dto.IssueWebhook{
				Media: dto.MediaPayload{TvdbID: 121361, SeasonNumber: 1, EpisodeNumber: 1},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(event.MediaKind).To(Equal(model.MediaKindTV))
		})

		It("infers movie from a tmdb id", func() {
			event, err := m.Map(dto.IssueWebhook{
				Media: dto.MediaPayload{TmdbID: 550},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(event.MediaKind).To(Equal(model.MediaKindMovie))
		})

		It("rejects payloads with no determinable media kind", func() {
			_, err := m.Map(dto.IssueWebhook{Subject: "something broke"})
			var verr *model.ValidationError
			Expect(err).To(HaveOccurred())
			Expect(errors.As(err, &verr)).To(BeTrue())
			Expect(verr.Field).To(Equal("media_type"))
		})
	})

	Describe("season and episode", func() {
		It("uses structured fields when present", func() {
			event, err := m.Map(dto.IssueWebhook{
				Media: dto.MediaPayload{MediaType: "tv", TvdbID: 1, SeasonNumber: 3, EpisodeNumber: 7},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(*event.Season).To(Equal(3))
			Expect(*event.Episode).To(Equal(7))
		})

		It("uses the issue's affected season and episode", func() {
			event, err := m.Map(dto.IssueWebhook{
				Media: dto.MediaPayload{MediaType: "tv", TvdbID: 1},
				Issue: dto.IssuePayload{AffectedSeason: 2, AffectedEpisode: 9},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(*event.Season).To(Equal(2))
			Expect(*event.Episode).To(Equal(9))
		})

		DescribeTable("extracts from free text",
			func(subject, message string, season, episode int) {
				event, err := m.Map(dto.IssueWebhook{
					Subject: subject,
					Message: message,
					Media:   dto.MediaPayload{MediaType: "tv", TvdbID: 1},
				})
				Expect(err).NotTo(HaveOccurred())
				Expect(*event.Season).To(Equal(season))
				Expect(*event.Episode).To(Equal(episode))
			},
			Entry("SxxEyy in subject", "Breaking Bad S02E05", "no audio", 2, 5),
			Entry("lowercase sxxeyy", "breaking bad s01e13", "", 1, 13),
			Entry("prose season/episode", "Breaking Bad", "season 2 episode 5, no audio", 2, 5),
			Entry("SxxEyy wins over prose", "S03E01", "season 9 episode 9", 3, 1),
		)

		It("extracts from the comment when subject and message have nothing", func() {
			event, err := m.Map(dto.IssueWebhook{
				Subject: "Breaking Bad",
				Media:   dto.MediaPayload{MediaType: "tv", TvdbID: 1},
				Comment: dto.CommentPayload{Message: "S04E08 has the wrong language track"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(*event.Season).To(Equal(4))
			Expect(*event.Episode).To(Equal(8))
		})

		It("mixes the SxxEyy pattern with a structured season", func() {
			event, err := m.Map(dto.IssueWebhook{
				Subject: "season 2 episode 5, no audio, S02E05",
				Media:   dto.MediaPayload{MediaType: "tv", TvdbID: 1},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(*event.Season).To(Equal(2))
			Expect(*event.Episode).To(Equal(5))
		})

		It("rejects TV events with an unresolved episode", func() {
			_, err := m.Map(dto.IssueWebhook{
				Subject: "Breaking Bad is broken",
				Media:   dto.MediaPayload{MediaType: "tv", TvdbID: 1},
			})
			var verr *model.ValidationError
			Expect(errors.As(err, &verr)).To(BeTrue())
			Expect(verr.Field).To(Equal("season_episode"))
		})

		It("leaves movie events without season or episode", func() {
			event, err := m.Map(dto.IssueWebhook{
				Media: dto.MediaPayload{MediaType: "movie", TmdbID: 550},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(event.Season).To(BeNil())
			Expect(event.Episode).To(BeNil())
		})
	})

	Describe("identifiers and text", func() {
		It("normalizes an imdb id without the tt prefix", func() {
			event, err := m.Map(dto.IssueWebhook{
				Media: dto.MediaPayload{MediaType: "movie", TmdbID: 550, ImdbID: "0137523"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(event.IMDBID).To(Equal("tt0137523"))
		})

		It("keeps a well-formed imdb id as is", func() {
			event, err := m.Map(dto.IssueWebhook{
				Media: dto.MediaPayload{MediaType: "movie", TmdbID: 550, ImdbID: "tt0137523"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(event.IMDBID).To(Equal("tt0137523"))
		})

		It("parses a title and year out of the subject when media.title is absent", func() {
			event, err := m.Map(dto.IssueWebhook{
				Subject: "Fight Club (1999)",
				Media:   dto.MediaPayload{MediaType: "movie", TmdbID: 550},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(event.Title).To(Equal("Fight Club"))
			Expect(event.Year).To(Equal(1999))
		})

		It("decodes lenient numeric fields from a real payload", func() {
			payload := decode(`{
				"notification_type": "ISSUE_CREATED",
				"subject": "Fight Club (1999)",
				"message": "audio out of sync",
				"media": {"media_type": "movie", "tmdbId": "550", "tvdbId": "{{media_tvdbid}}"},
				"issue": {"issue_id": "17", "issue_type": "audio", "issue_status": "OPEN"}
			}`)
			event, err := m.Map(payload)
			Expect(err).NotTo(HaveOccurred())
			Expect(event.TMDBID).To(Equal(int64(550)))
			Expect(event.TVDBID).To(BeZero())
			Expect(event.IssueID).To(Equal(int64(17)))
			Expect(event.IssueType).To(Equal(model.IssueTypeAudio))
			Expect(event.MediaKind).To(Equal(model.MediaKindMovie))
		})
	})
})
