package bot

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/awesome-schedule/plannable/internal/catalog"
	"github.com/awesome-schedule/plannable/internal/icsexport"
	"github.com/awesome-schedule/plannable/internal/meeting"
	"github.com/awesome-schedule/plannable/internal/schedule"
	"github.com/awesome-schedule/plannable/internal/utils"
)

// termLength approximates a semester, used to bound the recurrence a /gcal
// link covers when the catalog has no explicit term end date of its own.
const termLength = 16 * 7 * 24 * time.Hour

// CommandHandler is a function that handles a slash command interaction.
type CommandHandler func(b *Bot, s *discordgo.Session, i *discordgo.InteractionCreate) error

var (
	// CommandDefinitions is a list of all the bot's command definitions.
	CommandDefinitions = []*discordgo.ApplicationCommand{GroupsCommandDefinition, ScheduleCommandDefinition, MeetingCommandDefinition, IcsCommandDefinition, GCalCommandDefinition}
	// CommandHandlers is a map of command names to their handlers.
	CommandHandlers = map[string]CommandHandler{
		GroupsCommandDefinition.Name:   GroupsCommandHandler,
		ScheduleCommandDefinition.Name: ScheduleCommandHandler,
		MeetingCommandDefinition.Name:  MeetingCommandHandler,
		IcsCommandDefinition.Name:      IcsCommandHandler,
		GCalCommandDefinition.Name:     GCalCommandHandler,
	}
)

// maxGroupsListed bounds how many GroupKeys /groups lists in one reply.
const maxGroupsListed = 25

// maxSchedulesEmbedded bounds how many schedules /schedule embeds in one
// reply; Discord allows at most 10 embeds per message.
const maxSchedulesEmbedded = 10

var GroupsCommandDefinition = &discordgo.ApplicationCommand{
	Name:        "groups",
	Description: "List known course+section-type groups",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "prefix",
			Description: "Filter group keys by prefix (e.g. cs2110)",
			Required:    false,
		},
	},
}

// GroupsCommandHandler handles /groups, listing GroupKeys known to the
// current catalog, optionally filtered by a lower-cased prefix.
func GroupsCommandHandler(b *Bot, s *discordgo.Session, i *discordgo.InteractionCreate) error {
	cat, err := b.Catalog.Get()
	if err != nil && cat == nil {
		return errors.Wrap(err, "loading catalog")
	}

	options := utils.ParseOptions(i.ApplicationCommandData().Options)
	prefix := strings.ToLower(strings.TrimSpace(options.GetString("prefix")))

	matches := lo.Filter(cat.Keys(), func(k catalog.GroupKey, _ int) bool {
		return prefix == "" || strings.HasPrefix(string(k), prefix)
	})

	truncated := len(matches) > maxGroupsListed
	if truncated {
		matches = matches[:maxGroupsListed]
	}

	lines := lo.Map(matches, func(k catalog.GroupKey, _ int) string { return string(k) })
	body := strings.Join(lines, "\n")
	if body == "" {
		body = "No groups match that prefix."
	}
	if truncated {
		body += fmt.Sprintf("\n… and more (showing first %d)", maxGroupsListed)
	}

	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{{Title: "Groups", Description: body}},
		},
	})
}

var ScheduleCommandDefinition = &discordgo.ApplicationCommand{
	Name:        "schedule",
	Description: "Find non-conflicting schedules across a set of groups",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "groups",
			Description: "Space-separated group keys, e.g. cs2110lecture cs2110laboratory",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "max",
			Description: "Maximum number of schedules to return",
			Required:    false,
		},
	},
}

// ScheduleCommandHandler handles /schedule: parses the requested group
// keys, calls schedule.Find against the current catalog, and replies with
// one embed per returned schedule (bounded to Discord's 10-embed limit).
func ScheduleCommandHandler(b *Bot, s *discordgo.Session, i *discordgo.InteractionCreate) error {
	cat, err := b.Catalog.Get()
	if err != nil && cat == nil {
		return errors.Wrap(err, "loading catalog")
	}

	options := utils.ParseOptions(i.ApplicationCommandData().Options)
	groupKeys := strings.Fields(strings.ToLower(options.GetString("groups")))
	if len(groupKeys) == 0 {
		return utils.RespondError(s, i.Interaction, "At least one group key is required.", nil)
	}

	var maxResults *int
	if opt, ok := options["max"]; ok {
		n := int(opt.IntValue())
		maxResults = &n
	}

	results, err := schedule.Find(cat, groupKeys, maxResults, schedule.Filters{}, nil)
	if err != nil {
		switch err.(type) {
		case *schedule.UnknownGroupError, *schedule.InvalidArgumentsError:
			return utils.RespondError(s, i.Interaction, err.Error(), nil)
		default:
			return errors.Wrap(err, "finding schedules")
		}
	}

	if len(results) == 0 {
		return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Embeds: []*discordgo.MessageEmbed{{Title: "Schedules", Description: "No conflict-free schedule exists for that combination of groups."}},
			},
		})
	}

	shown := results
	if len(shown) > maxSchedulesEmbedded {
		shown = shown[:maxSchedulesEmbedded]
	}

	embeds := lo.Map(shown, func(sc schedule.Schedule, idx int) *discordgo.MessageEmbed {
		return scheduleEmbed(cat, groupKeys, sc, idx)
	})

	content := ""
	if len(results) > maxSchedulesEmbedded {
		content = fmt.Sprintf("Showing %d of %d schedules found.", maxSchedulesEmbedded, len(results))
	}

	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Embeds:  embeds,
		},
	})
}

// scheduleEmbed renders one schedule (the caller's group keys paired with
// the chosen section id per position) as an embed.
func scheduleEmbed(cat *catalog.Catalog, groupKeys []string, sc schedule.Schedule, idx int) *discordgo.MessageEmbed {
	fields := make([]*discordgo.MessageEmbedField, 0, len(sc))
	for pos, key := range groupKeys {
		sections, _ := cat.Sections(catalog.GroupKey(key))
		id := sc[pos]
		label := strconv.Itoa(id)
		for _, section := range sections {
			if section.ID == id {
				label = fmt.Sprintf("%s%s %s (#%d)", section.Department, section.Number, section.SectionLabel, section.ID)
				break
			}
		}
		fields = append(fields, &discordgo.MessageEmbedField{Name: key, Value: label})
	}
	return &discordgo.MessageEmbed{
		Title:  fmt.Sprintf("Option %d", idx+1),
		Fields: fields,
	}
}

var MeetingCommandDefinition = &discordgo.ApplicationCommand{
	Name:        "meeting",
	Description: "Parse a meeting-time pattern, e.g. \"MoWeFr 10:00AM-10:50AM\"",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "text",
			Description: "Meeting-time text to parse",
			Required:    true,
			MinLength:   utils.GetIntPointer(1),
		},
	},
}

// MeetingCommandHandler handles /meeting, round-tripping a single
// meeting-time string through meeting.Parse for debugging filter strings.
func MeetingCommandHandler(b *Bot, s *discordgo.Session, i *discordgo.InteractionCreate) error {
	options := utils.ParseOptions(i.ApplicationCommandData().Options)
	text := options.GetString("text")

	mt, err := meeting.Parse(text)
	if err != nil {
		return utils.RespondError(s, i.Interaction, fmt.Sprintf("Could not parse %q: %s", text, err.Error()), nil)
	}

	description := mt.String()
	if !mt.TBA {
		description = fmt.Sprintf("Days: %s\nStart: %d\nEnd: %d\nCanonical: %s", mt.Days.String(), mt.Start, mt.End, mt.String())
	}

	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{{Title: "Parsed meeting", Description: description}},
		},
	})
}

var IcsCommandDefinition = &discordgo.ApplicationCommand{
	Name:        "ics",
	Description: "Generate an ICS calendar file for a section",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "group",
			Description: "Group key, e.g. cs2110lecture",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "section",
			Description: "Section id within that group",
			Required:    true,
		},
	},
}

// IcsCommandHandler handles /ics, looking up a section by group key and id
// and replying with a downloadable calendar file holding one recurring
// event per scheduled meeting.
func IcsCommandHandler(b *Bot, s *discordgo.Session, i *discordgo.InteractionCreate) error {
	cat, err := b.Catalog.Get()
	if err != nil && cat == nil {
		return errors.Wrap(err, "loading catalog")
	}

	options := utils.ParseOptions(i.ApplicationCommandData().Options)
	key := catalog.GroupKey(strings.ToLower(strings.TrimSpace(options.GetString("group"))))
	sectionID := int(options.GetInt("section"))

	sections, ok := cat.Sections(key)
	if !ok {
		return utils.RespondError(s, i.Interaction, fmt.Sprintf("Unknown group %q.", key), nil)
	}
	section, found := lo.Find(sections, func(sec catalog.Section) bool { return sec.ID == sectionID })
	if !found {
		return utils.RespondError(s, i.Interaction, fmt.Sprintf("No section #%d in group %q.", sectionID, key), nil)
	}
	if !lo.SomeBy(section.Meetings, func(m meeting.MeetingTime) bool { return !m.TBA }) {
		return utils.RespondError(s, i.Interaction, "That section has no scheduled meeting time to export.", nil)
	}

	termStart := time.Now()
	cal, err := icsexport.Calendar([]catalog.Section{section}, termStart, termStart.Add(termLength), termStart.Location())
	if err != nil {
		return errors.Wrap(err, "building calendar")
	}

	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Files: []*discordgo.File{
				{
					Name:        fmt.Sprintf("%s%s-%s_%d.ics", section.Department, section.Number, section.SectionLabel, section.ID),
					ContentType: "text/calendar",
					Reader:      strings.NewReader(cal.Serialize()),
				},
			},
		},
	})
}

var GCalCommandDefinition = &discordgo.ApplicationCommand{
	Name:        "gcal",
	Description: "Generate a link to add a section's first meeting to Google Calendar",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "group",
			Description: "Group key, e.g. cs2110lecture",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "section",
			Description: "Section id within that group",
			Required:    true,
		},
	},
}

// GCalCommandHandler handles /gcal, looking up a section by group key and
// id and replying with a prefilled Google Calendar event link for its first
// scheduled meeting.
func GCalCommandHandler(b *Bot, s *discordgo.Session, i *discordgo.InteractionCreate) error {
	cat, err := b.Catalog.Get()
	if err != nil && cat == nil {
		return errors.Wrap(err, "loading catalog")
	}

	options := utils.ParseOptions(i.ApplicationCommandData().Options)
	key := catalog.GroupKey(strings.ToLower(strings.TrimSpace(options.GetString("group"))))
	sectionID := int(options.GetInt("section"))

	sections, ok := cat.Sections(key)
	if !ok {
		return utils.RespondError(s, i.Interaction, fmt.Sprintf("Unknown group %q.", key), nil)
	}
	section, found := lo.Find(sections, func(sec catalog.Section) bool { return sec.ID == sectionID })
	if !found {
		return utils.RespondError(s, i.Interaction, fmt.Sprintf("No section #%d in group %q.", sectionID, key), nil)
	}
	scheduled, hasMeeting := lo.Find(section.Meetings, func(m meeting.MeetingTime) bool { return !m.TBA })
	if !hasMeeting {
		return utils.RespondError(s, i.Interaction, "That section has no scheduled meeting time to link.", nil)
	}

	termStart := time.Now()
	link, err := icsexport.GoogleCalendarLink(section, scheduled, termStart, termStart.Add(termLength), termStart.Location())
	if err != nil {
		return errors.Wrap(err, "building calendar link")
	}

	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{{Title: "Add to Google Calendar", Description: link}},
		},
	})
}
