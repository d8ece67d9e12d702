package model

// ContentType is the kind of a content item.
type ContentType string

// Content types.
const (
	TypeSocialPost   ContentType = "social-post"
	TypeEmail        ContentType = "email"
	TypeAdCopy       ContentType = "ad-copy"
	TypeBlogPost     ContentType = "blog-post"
	TypePressRelease ContentType = "press-release"
	TypeVideoScript  ContentType = "video-script"
	TypeInfographic  ContentType = "infographic"
)

// ContentTypes lists every known content type.
var ContentTypes = []ContentType{
	TypeSocialPost, TypeEmail, TypeAdCopy, TypeBlogPost,
	TypePressRelease, TypeVideoScript, TypeInfographic,
}

// Valid reports whether t is a known content type.
func (t ContentType) Valid() bool { return contains(ContentTypes, t) }

// Channel is the distribution channel of a content item.
type Channel string

// Channels.
const (
	ChannelFacebook     Channel = "facebook"
	ChannelInstagram    Channel = "instagram"
	ChannelTwitter      Channel = "twitter"
	ChannelLinkedIn     Channel = "linkedin"
	ChannelEmail        Channel = "email"
	ChannelWebsite      Channel = "website"
	ChannelYouTube      Channel = "youtube"
	ChannelTikTok       Channel = "tiktok"
	ChannelSnapchat     Channel = "snapchat"
	ChannelTikTokArabia Channel = "tiktok-arabia"
	ChannelLinkedInMENA Channel = "linkedin-mena"
	ChannelOther        Channel = "other"
)

// Channels lists every known channel.
var Channels = []Channel{
	ChannelFacebook, ChannelInstagram, ChannelTwitter, ChannelLinkedIn,
	ChannelEmail, ChannelWebsite, ChannelYouTube, ChannelTikTok,
	ChannelSnapchat, ChannelTikTokArabia, ChannelLinkedInMENA, ChannelOther,
}

// Valid reports whether c is a known channel.
func (c Channel) Valid() bool { return contains(Channels, c) }

// ContentStatus is the publication state of a content item.
type ContentStatus string

// Content statuses.
const (
	ContentDraft     ContentStatus = "draft"
	ContentScheduled ContentStatus = "scheduled"
	ContentPublished ContentStatus = "published"
	ContentArchived  ContentStatus = "archived"
)

// ContentStatuses lists every content status.
var ContentStatuses = []ContentStatus{ContentDraft, ContentScheduled, ContentPublished, ContentArchived}

// Valid reports whether s is a known content status.
func (s ContentStatus) Valid() bool { return contains(ContentStatuses, s) }

// CampaignStatus is the lifecycle state of a campaign.
type CampaignStatus string

// Campaign statuses.
const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignActive    CampaignStatus = "active"
	CampaignPaused    CampaignStatus = "paused"
	CampaignCompleted CampaignStatus = "completed"
)

// CampaignStatuses lists every campaign status.
var CampaignStatuses = []CampaignStatus{CampaignDraft, CampaignActive, CampaignPaused, CampaignCompleted}

// Valid reports whether s is a known campaign status.
func (s CampaignStatus) Valid() bool { return contains(CampaignStatuses, s) }

// Platform is the social network of an account.
type Platform string

// Platforms.
const (
	PlatformFacebook     Platform = "facebook"
	PlatformInstagram    Platform = "instagram"
	PlatformTwitter      Platform = "twitter"
	PlatformLinkedIn     Platform = "linkedin"
	PlatformYouTube      Platform = "youtube"
	PlatformTikTok       Platform = "tiktok"
	PlatformSnapchat     Platform = "snapchat"
	PlatformPinterest    Platform = "pinterest"
	PlatformTikTokArabia Platform = "tiktok-arabia"
	PlatformLinkedInMENA Platform = "linkedin-mena"
	PlatformOther        Platform = "other"
)

// Platforms lists every known platform.
var Platforms = []Platform{
	PlatformFacebook, PlatformInstagram, PlatformTwitter, PlatformLinkedIn,
	PlatformYouTube, PlatformTikTok, PlatformSnapchat, PlatformPinterest,
	PlatformTikTokArabia, PlatformLinkedInMENA, PlatformOther,
}

// Valid reports whether p is a known platform.
func (p Platform) Valid() bool { return contains(Platforms, p) }

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
