package bot

import "github.com/bwmarrin/discordgo"

const (
	// CommandReleases shows the release calendar of a day.
	CommandReleases = "releases"
	// OptionDate is the optional DD-MM-YYYY argument of CommandReleases.
	OptionDate = "date"
)

// User-facing messages.
const (
	MsgInvalidDate = "Ngày không hợp lệ."
	MsgNoReleases  = "Không có truyện phát hành ngày này."
	MsgFailure     = "Đã có lỗi xảy ra, vui lòng thử lại sau."
)

// Commands returns the application commands registered at startup.
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        CommandReleases,
			Description: "Xem lịch phát hành",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        OptionDate,
					Description: "Ngày/tháng/năm",
					Required:    false,
				},
			},
		},
	}
}
