package post

import (
	"time"
)

// fetchTwitterItems 返回Twitter来源的信息流内容。
// 实际部署中这里会调用Twitter API；当前返回内置的示例数据。
func fetchTwitterItems() []FeedItem {
	now := time.Now()
	return []FeedItem{
		{
			ID:        "tweet1",
			Title:     "Latest tech news",
			Content:   "Exciting developments in AI and machine learning are transforming industries across the globe.",
			Author:    "TechNews",
			Source:    SourceTwitter,
			ImageURL:  "https://picsum.photos/600/400?random=1",
			Likes:     245,
			Comments:  39,
			CreatedAt: now,
		},
		{
			ID:        "tweet2",
			Title:     "Startup funding",
			Content:   "New startup secures $50M in Series B funding to revolutionize renewable energy storage solutions.",
			Author:    "VentureCapital",
			Source:    SourceTwitter,
			Likes:     127,
			Comments:  21,
			CreatedAt: now,
		},
	}
}

// fetchRedditItems 返回Reddit来源的信息流内容。
// 实际部署中这里会调用Reddit API；当前返回内置的示例数据。
func fetchRedditItems() []FeedItem {
	now := time.Now()
	return []FeedItem{
		{
			ID:        "reddit1",
			Title:     "What programming language should I learn in 2023?",
			Content:   "I'm looking to start my programming journey and wondering which language would be most valuable to learn first. Any suggestions?",
			Author:    "coding_newbie",
			Source:    SourceReddit,
			Likes:     432,
			Comments:  157,
			CreatedAt: now,
		},
		{
			ID:        "reddit2",
			Title:     "My experience working remotely for 3 years",
			Content:   "After working remotely for 3 years, I wanted to share some tips and challenges I've faced along the way...",
			Author:    "remote_worker",
			Source:    SourceReddit,
			ImageURL:  "https://picsum.photos/600/400?random=2",
			Likes:     876,
			Comments:  214,
			CreatedAt: now,
		},
	}
}
