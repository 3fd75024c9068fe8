package main

import (
	"strings"

	"blogsite/internal/models"
	"blogsite/pkg/client"
	"blogsite/pkg/content"

	"github.com/kennygrant/sanitize"
	"github.com/spf13/cobra"
)

func (a *app) blogsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blogs",
		Short: "Browse, write and like blogs",
	}
	cmd.AddCommand(
		a.blogsListCmd(),
		a.blogsRecentCmd(),
		a.blogsShowCmd(),
		a.blogsCreateCmd(),
		a.blogsUpdateCmd(),
		a.blogsLikeCmd(),
		a.blogsLikedCmd(),
	)
	return cmd
}

func (a *app) blogsListCmd() *cobra.Command {
	var opts client.ListOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List blogs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := a.api.ListBlogs(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return a.print(page)
		},
	}

	cmd.Flags().StringVar(&opts.Search, "search", "", "case-insensitive text search")
	cmd.Flags().StringVar(&opts.Category, "category", "", "exact category")
	cmd.Flags().StringVar(&opts.Author, "author", "", "author email")
	cmd.Flags().IntVar(&opts.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&opts.Limit, "limit", 10, "blogs per page")
	return cmd
}

func (a *app) blogsRecentCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show the newest published blogs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			blogs, err := a.api.RecentBlogs(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return a.print(blogs)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "number of blogs (server default when 0)")
	return cmd
}

func (a *app) blogsShowCmd() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "show BLOG_ID",
		Short: "Show one blog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			blog, err := a.api.GetBlog(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !plain {
				return a.print(blog)
			}
			a.printf("%s\nby %s in %s, %d likes\n", blog.Title, blog.Author.Name, blog.Category, blog.Likes)
			a.printf("%s", strings.TrimSpace(sanitize.HTML(blog.LongDescription)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print the blog as plain text")
	return cmd
}

// blogFlags holds the writable blog fields shared by create and update.
type blogFlags struct {
	title, image, category, short, long, tags, readTime string
	featured, published                                 bool
}

func (f *blogFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "title")
	cmd.Flags().StringVar(&f.image, "image", "", "cover image URL")
	cmd.Flags().StringVar(&f.category, "category", "", "category")
	cmd.Flags().StringVar(&f.short, "short", "", "short description")
	cmd.Flags().StringVar(&f.long, "long", "", "long description (HTML)")
	cmd.Flags().StringVar(&f.tags, "tags", "", "comma separated tags")
	cmd.Flags().StringVar(&f.readTime, "read-time", "", "estimated read time")
	cmd.Flags().BoolVar(&f.featured, "featured", false, "feature the blog")
	cmd.Flags().BoolVar(&f.published, "published", false, "publish the blog")
}

func (a *app) blogsCreateCmd() *cobra.Command {
	var f blogFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Write a new blog as the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			u, err := a.currentUser(ctx)
			if err != nil {
				return err
			}

			id, err := a.api.CreateBlog(ctx, models.Blog{
				Title:            f.title,
				Image:            f.image,
				Category:         f.category,
				ShortDescription: f.short,
				LongDescription:  f.long,
				Tags:             content.ParseTags(f.tags),
				ReadTime:         f.readTime,
				IsFeatured:       f.featured,
				IsPublished:      f.published,
				Author:           models.Author{Name: u.DisplayName(), Email: u.Email(), Photo: u.PhotoURL()},
			})
			if err != nil {
				return err
			}
			a.printf("Created blog %s", id)
			return nil
		},
	}

	f.register(cmd)
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func (a *app) blogsUpdateCmd() *cobra.Command {
	var f blogFlags

	cmd := &cobra.Command{
		Use:   "update BLOG_ID",
		Short: "Change the given fields of one of your blogs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var update models.BlogUpdate
			changed := cmd.Flags().Changed
			if changed("title") {
				update.Title = &f.title
			}
			if changed("image") {
				update.Image = &f.image
			}
			if changed("category") {
				update.Category = &f.category
			}
			if changed("short") {
				update.ShortDescription = &f.short
			}
			if changed("long") {
				update.LongDescription = &f.long
			}
			if changed("tags") {
				tags := content.ParseTags(f.tags)
				update.Tags = &tags
			}
			if changed("read-time") {
				update.ReadTime = &f.readTime
			}
			if changed("featured") {
				update.IsFeatured = &f.featured
			}
			if changed("published") {
				update.IsPublished = &f.published
			}

			blog, err := a.api.UpdateBlog(cmd.Context(), args[0], update)
			if err != nil {
				return err
			}
			return a.print(blog)
		},
	}

	f.register(cmd)
	return cmd
}

func (a *app) blogsLikeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "like BLOG_ID",
		Short: "Toggle your like on a blog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			liked, likes, err := a.api.ToggleLike(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if liked {
				a.printf("Liked (%d likes)", likes)
			} else {
				a.printf("Unliked (%d likes)", likes)
			}
			return nil
		},
	}
}

func (a *app) blogsLikedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "liked [BLOG_ID EMAIL]",
		Short: "List the blogs you like, or check whether EMAIL likes BLOG_ID",
		Args:  cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch len(args) {
			case 0:
				blogs, err := a.api.LikedBlogs(cmd.Context())
				if err != nil {
					return err
				}
				return a.print(blogs)
			case 2:
				liked, err := a.api.IsLikedBy(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				return a.print(map[string]bool{"liked": liked})
			default:
				return cmd.Usage()
			}
		},
	}
}
