// Package i18n holds the user-facing strings of the landing page and its
// assistant panel.
package i18n

import (
	"fmt"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Key identifies a localized string
type Key int

const (
	LandingTitle Key = iota
	LandingTagline
	IntroHeading
	IntroBody
	VisitSite
	MyProfile
	PreviewCaption
	PreviewFallback
	OpenChatHint

	PanelTitle
	Greeting
	InputPlaceholder
	InputDisabled
	Thinking
	AssistantLabel
	UserLabel

	CapabilityLoadFailed
	ConfigurationFailed
	UnknownError
	SendFallback

	Copied
	CopyFailed
	NothingToCopy
	OpenLinkFailed

	keyCount
)

var vietnamese = map[Key]string{
	LandingTitle:    "Group Assignment Final",
	LandingTagline:  "Giải pháp toàn diện cho việc hợp tác nhóm.",
	IntroHeading:    "Giới thiệu Dự án",
	IntroBody:       "Dự án này là một nền tảng web hiện đại, giúp các nhóm sinh viên, học sinh tổ chức, cộng tác và hoàn thành bài tập nhóm một cách hiệu quả. Với giao diện trực quan và các tính năng mạnh mẽ, việc hợp tác trở nên dễ dàng hơn bao giờ hết.",
	VisitSite:       "Xem Trang Web",
	MyProfile:       "Hồ sơ của tôi",
	PreviewCaption:  "Ảnh chụp trang chủ của ứng dụng Group Assignment Final",
	PreviewFallback: "Lỗi hiển thị ảnh xem trước",
	OpenChatHint:    "Mở trợ lý AI",

	PanelTitle:       "Trợ lý AI",
	Greeting:         "Xin chào! Tôi có thể giúp gì cho bạn về dự án này?",
	InputPlaceholder: "Hỏi tôi bất cứ điều gì...",
	InputDisabled:    "Trò chuyện bị vô hiệu hóa",
	Thinking:         "Đang trả lời",
	AssistantLabel:   "AI",
	UserLabel:        "Bạn",

	CapabilityLoadFailed: "Không thể tải thư viện AI. Vui lòng kiểm tra kết nối mạng và thử lại.",
	ConfigurationFailed:  "Lỗi cấu hình AI: %s. Vui lòng kiểm tra lại API key.",
	UnknownError:         "Đã xảy ra lỗi không xác định.",
	SendFallback:         "Xin lỗi, tôi đã gặp lỗi. Vui lòng thử lại.",

	Copied:         "Đã sao chép vào bộ nhớ tạm",
	CopyFailed:     "Không thể sao chép: %v",
	NothingToCopy:  "Chưa có câu trả lời nào để sao chép",
	OpenLinkFailed: "Không thể mở liên kết: %v",
}

var english = map[Key]string{
	LandingTitle:    "Group Assignment Final",
	LandingTagline:  "A complete solution for team collaboration.",
	IntroHeading:    "About the Project",
	IntroBody:       "This project is a modern web platform that helps student teams organize, collaborate on and finish group assignments efficiently. With an intuitive interface and powerful features, working together has never been easier.",
	VisitSite:       "Visit Website",
	MyProfile:       "My Profile",
	PreviewCaption:  "Screenshot of the Group Assignment Final web application homepage",
	PreviewFallback: "Preview image failed to load",
	OpenChatHint:    "Open AI assistant",

	PanelTitle:       "AI Assistant",
	Greeting:         "Hello! How can I help you with this project?",
	InputPlaceholder: "Ask me anything...",
	InputDisabled:    "Chat is disabled",
	Thinking:         "Replying",
	AssistantLabel:   "AI",
	UserLabel:        "You",

	CapabilityLoadFailed: "Could not load the AI library. Please check your network connection and try again.",
	ConfigurationFailed:  "AI configuration error: %s. Please check your API key.",
	UnknownError:         "An unknown error occurred.",
	SendFallback:         "Sorry, I ran into an error. Please try again.",

	Copied:         "Copied to clipboard",
	CopyFailed:     "Failed to copy: %v",
	NothingToCopy:  "No reply to copy yet",
	OpenLinkFailed: "Failed to open link: %v",
}

// Vietnamese is first so that unknown or empty tags fall back to it.
var supported = []language.Tag{language.Vietnamese, language.English}

var matcher = language.NewMatcher(supported)

var messages = buildCatalog(map[language.Tag]map[Key]string{
	language.Vietnamese: vietnamese,
	language.English:    english,
})

func buildCatalog(tables map[language.Tag]map[Key]string) *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(supported[0]))
	for tag, table := range tables {
		for k, msg := range table {
			if err := b.SetString(tag, k.id(), msg); err != nil {
				panic(fmt.Sprintf("i18n: register %s/%s: %v", tag, k.id(), err))
			}
		}
	}
	return b
}

// id is the message key registered in the catalog
func (k Key) id() string {
	return "landingchat." + strconv.Itoa(int(k))
}

// Catalog resolves keys for one language
type Catalog struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns the catalog best matching lang (a BCP 47 tag such as "vi" or
// "en-US"). Unknown tags get the Vietnamese catalog.
func New(lang string) *Catalog {
	tag := supported[0]
	if parsed, err := language.Parse(lang); err == nil {
		_, idx, _ := matcher.Match(parsed)
		tag = supported[idx]
	}
	return &Catalog{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(messages)),
	}
}

// Tag returns the language the catalog serves
func (c *Catalog) Tag() language.Tag {
	return c.tag
}

// Text returns the string for key
func (c *Catalog) Text(key Key) string {
	if key < 0 || key >= keyCount {
		return ""
	}
	return c.printer.Sprintf(key.id())
}

// Format returns the string for key with args substituted for its verbs
func (c *Catalog) Format(key Key, args ...any) string {
	if key < 0 || key >= keyCount {
		return ""
	}
	return c.printer.Sprintf(key.id(), args...)
}

// Languages lists the supported language tags
func Languages() []string {
	out := make([]string, len(supported))
	for i, t := range supported {
		out[i] = t.String()
	}
	return out
}
