package main

import (
	"blogsite/internal/models"
	"blogsite/pkg/client"

	"github.com/spf13/cobra"
)

func (a *app) commentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comments",
		Short: "Read and write reviews",
	}

	var text string
	var rating int
	add := &cobra.Command{
		Use:   "add BLOG_ID",
		Short: "Review a blog with a 1-5 rating",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			u, err := a.currentUser(ctx)
			if err != nil {
				return err
			}
			comments, err := a.api.AddComment(ctx, client.NewComment{
				BlogID:    args[0],
				Text:      text,
				UserName:  u.DisplayName(),
				UserImage: u.PhotoURL(),
				Rating:    rating,
			})
			if err != nil {
				return err
			}
			return a.print(comments)
		},
	}
	add.Flags().StringVar(&text, "text", "", "review text")
	add.Flags().IntVar(&rating, "rating", 0, "rating from 1 to 5")
	_ = add.MarkFlagRequired("text")
	_ = add.MarkFlagRequired("rating")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list BLOG_ID",
			Short: "List a blog's reviews",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				thread, err := a.api.Comments(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return a.print(thread)
			},
		},
		add,
		&cobra.Command{
			Use:   "top",
			Short: "Show the best rated reviews",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				comments, err := a.api.TopRated(cmd.Context())
				if err != nil {
					return err
				}
				return a.print(comments)
			},
		},
	)
	return cmd
}

func (a *app) wishlistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wishlist",
		Short: "Manage your bookmarked blogs",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add BLOG_ID",
			Short: "Bookmark a blog",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				u, err := a.currentUser(ctx)
				if err != nil {
					return err
				}
				added, err := a.api.AddToWishlist(ctx, u.Email(), args[0])
				if err != nil {
					return err
				}
				if added {
					a.printf("Added to wishlist")
				} else {
					a.printf("Already in wishlist")
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List your bookmarks",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				u, err := a.currentUser(ctx)
				if err != nil {
					return err
				}
				items, err := a.api.Wishlist(ctx, u.Email())
				if err != nil {
					return err
				}
				return a.print(items)
			},
		},
		&cobra.Command{
			Use:   "remove ENTRY_ID",
			Short: "Delete a bookmark",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.api.RemoveFromWishlist(cmd.Context(), args[0]); err != nil {
					return err
				}
				a.printf("Removed")
				return nil
			},
		},
	)
	return cmd
}

func (a *app) profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or edit your stored profile",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show your profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			u, err := a.currentUser(ctx)
			if err != nil {
				return err
			}
			profile, err := a.api.GetUser(ctx, u.Email())
			if err != nil {
				return err
			}
			return a.print(profile)
		},
	}

	var name, photo, phone, address string
	update := &cobra.Command{
		Use:   "update",
		Short: "Change the given profile fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			u, err := a.currentUser(ctx)
			if err != nil {
				return err
			}
			profile, err := a.api.GetUser(ctx, u.Email())
			if err != nil {
				return err
			}

			var patch models.ProfilePatch
			changed := cmd.Flags().Changed
			if changed("name") {
				patch.Name = &name
			}
			if changed("photo") {
				patch.PhotoURL = &photo
			}
			if changed("phone") {
				patch.Phone = &phone
			}
			if changed("address") {
				patch.Address = &address
			}

			updated, err := a.api.UpdateUser(ctx, profile.ID, patch)
			if err != nil {
				return err
			}
			return a.print(updated)
		},
	}
	update.Flags().StringVar(&name, "name", "", "display name")
	update.Flags().StringVar(&photo, "photo", "", "photo URL")
	update.Flags().StringVar(&phone, "phone", "", "phone number")
	update.Flags().StringVar(&address, "address", "", "postal address")

	cmd.AddCommand(show, update)
	return cmd
}
