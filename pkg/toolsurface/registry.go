package toolsurface

var allProfiles = []Profile{ProfileReadonly, ProfileApiReadonly, ProfileWrite, ProfileAdmin, ProfileUtilityReadonly, ProfileUtilityWrite}

func profilesExcept(exclude ...Profile) []Profile {
	excluded := make(map[Profile]bool, len(exclude))
	for _, p := range exclude {
		excluded[p] = true
	}
	out := make([]Profile, 0, len(allProfiles))
	for _, p := range allProfiles {
		if !excluded[p] {
			out = append(out, p)
		}
	}
	return out
}

// Catalog returns the full, unfiltered tool catalog. Use Filter to
// restrict it to one profile's membership before building a Dispatcher.
func Catalog() []ToolSpec {
	readCaps := Capabilities{API: true}
	writeCaps := Capabilities{API: true}
	workflowCaps := Capabilities{API: true, LLM: true, Store: true}

	specs := []ToolSpec{
		// Read / List — every profile except Utility-write, which has no
		// read surface at all by design (flat write-only toolkit access).
		{
			Name: "search_tweets", Category: CategoryRead, Lane: LaneShared,
			Capabilities: readCaps, Scopes: []string{"tweet.read"},
			Profiles: profilesExcept(ProfileUtilityWrite),
			InputSchema: schema(map[string]interface{}{
				"query": strField("search query"), "max": intField("max results"),
				"since_id": strField("only tweets newer than this id"),
				"pagination_token": strField("page cursor"),
			}, "query"),
			Handler: handleSearchTweets,
		},
		{
			Name: "get_tweet", Category: CategoryRead, Lane: LaneShared,
			Capabilities: readCaps, Scopes: []string{"tweet.read"},
			Profiles:    profilesExcept(ProfileUtilityWrite),
			InputSchema: schema(map[string]interface{}{"id": strField("tweet id")}, "id"),
			Handler:     handleGetTweet,
		},
		{
			Name: "get_mentions", Category: CategoryList, Lane: LaneShared,
			Capabilities: readCaps, Scopes: []string{"tweet.read"},
			Profiles: profilesExcept(ProfileUtilityWrite),
			InputSchema: schema(map[string]interface{}{
				"user_id": strField("self user id"), "since_id": strField("cursor"),
				"pagination_token": strField("page cursor"),
			}, "user_id"),
			Handler: handleGetMentions,
		},
		{
			Name: "get_user_tweets", Category: CategoryList, Lane: LaneShared,
			Capabilities: readCaps, Scopes: []string{"tweet.read"},
			Profiles: profilesExcept(ProfileUtilityWrite),
			InputSchema: schema(map[string]interface{}{
				"user_id": strField("target user id"), "max": intField("max results"),
				"pagination_token": strField("page cursor"),
			}, "user_id"),
			Handler: handleGetUserTweets,
		},
		{
			Name: "get_user_by_username", Category: CategoryRead, Lane: LaneShared,
			Capabilities: readCaps, Scopes: []string{"users.read"},
			Profiles:    profilesExcept(ProfileUtilityWrite),
			InputSchema: schema(map[string]interface{}{"username": strField("@handle, no @")}, "username"),
			Handler:     handleGetUserByUsername,
		},
		{
			Name: "get_followers", Category: CategoryList, Lane: LaneShared,
			Capabilities: readCaps, Scopes: []string{"users.read", "follows.read"},
			Profiles: profilesExcept(ProfileUtilityWrite),
			InputSchema: schema(map[string]interface{}{
				"user_id": strField("target user id"), "max": intField("max results"),
				"pagination_token": strField("page cursor"),
			}, "user_id"),
			Handler: handleGetFollowers,
		},
		{
			Name: "get_following", Category: CategoryList, Lane: LaneShared,
			Capabilities: readCaps, Scopes: []string{"users.read", "follows.read"},
			Profiles: profilesExcept(ProfileUtilityWrite),
			InputSchema: schema(map[string]interface{}{
				"user_id": strField("target user id"), "max": intField("max results"),
				"pagination_token": strField("page cursor"),
			}, "user_id"),
			Handler: handleGetFollowing,
		},

		// Engage — Write, Admin, Utility-write only.
		{
			Name: "like_tweet", Category: CategoryEngage, Lane: LaneShared, Mutates: true,
			Capabilities: writeCaps, Scopes: []string{"like.write"},
			Profiles:    []Profile{ProfileWrite, ProfileAdmin, ProfileUtilityWrite},
			InputSchema: schema(map[string]interface{}{"tweet_id": strField("tweet id")}, "tweet_id"),
			Handler:     handleLikeTweet,
		},
		{
			Name: "unlike_tweet", Category: CategoryEngage, Lane: LaneShared, Mutates: true,
			Capabilities: writeCaps, Scopes: []string{"like.write"},
			Profiles:    []Profile{ProfileWrite, ProfileAdmin, ProfileUtilityWrite},
			InputSchema: schema(map[string]interface{}{"tweet_id": strField("tweet id")}, "tweet_id"),
			Handler:     handleUnlikeTweet,
		},
		{
			Name: "follow_user", Category: CategoryFollowUnfollow, Lane: LaneShared, Mutates: true,
			Capabilities: writeCaps, Scopes: []string{"follows.write"},
			Profiles:    []Profile{ProfileWrite, ProfileAdmin, ProfileUtilityWrite},
			InputSchema: schema(map[string]interface{}{"user_id": strField("user id")}, "user_id"),
			Handler:     handleFollowUser,
		},
		{
			Name: "unfollow_user", Category: CategoryFollowUnfollow, Lane: LaneShared, Mutates: true,
			Capabilities: writeCaps, Scopes: []string{"follows.write"},
			Profiles:    []Profile{ProfileWrite, ProfileAdmin, ProfileUtilityWrite},
			InputSchema: schema(map[string]interface{}{"user_id": strField("user id")}, "user_id"),
			Handler:     handleUnfollowUser,
		},
		{
			Name: "retweet", Category: CategoryEngage, Lane: LaneShared, Mutates: true,
			Capabilities: writeCaps, Scopes: []string{"tweet.write"},
			Profiles:    []Profile{ProfileWrite, ProfileAdmin, ProfileUtilityWrite},
			InputSchema: schema(map[string]interface{}{"tweet_id": strField("tweet id")}, "tweet_id"),
			Handler:     handleRetweet,
		},
		{
			Name: "unretweet", Category: CategoryEngage, Lane: LaneShared, Mutates: true,
			Capabilities: writeCaps, Scopes: []string{"tweet.write"},
			Profiles:    []Profile{ProfileWrite, ProfileAdmin, ProfileUtilityWrite},
			InputSchema: schema(map[string]interface{}{"tweet_id": strField("tweet id")}, "tweet_id"),
			Handler:     handleUnretweet,
		},
		{
			Name: "bookmark_tweet", Category: CategoryEngage, Lane: LaneShared, Mutates: true,
			Capabilities: writeCaps, Scopes: []string{"bookmark.write"},
			Profiles:    []Profile{ProfileWrite, ProfileAdmin, ProfileUtilityWrite},
			InputSchema: schema(map[string]interface{}{"tweet_id": strField("tweet id")}, "tweet_id"),
			Handler:     handleBookmarkTweet,
		},
		{
			Name: "unbookmark_tweet", Category: CategoryEngage, Lane: LaneShared, Mutates: true,
			Capabilities: writeCaps, Scopes: []string{"bookmark.write"},
			Profiles:    []Profile{ProfileWrite, ProfileAdmin, ProfileUtilityWrite},
			InputSchema: schema(map[string]interface{}{"tweet_id": strField("tweet id")}, "tweet_id"),
			Handler:     handleUnbookmarkTweet,
		},

		// Write — standalone posting primitives.
		{
			Name: "quote_tweet", Category: CategoryWrite, Lane: LaneShared, Mutates: true,
			Capabilities: writeCaps, Scopes: []string{"tweet.write"},
			Profiles: []Profile{ProfileWrite, ProfileAdmin, ProfileUtilityWrite},
			InputSchema: schema(map[string]interface{}{
				"text": strField("quote text"), "quoted_tweet_id": strField("tweet being quoted"),
				"media_ids": strArrayField("uploaded media ids"),
			}, "text", "quoted_tweet_id"),
			Handler: handleQuoteTweet,
		},
		{
			Name: "upload_media", Category: CategoryWrite, Lane: LaneShared, Mutates: true,
			Capabilities: writeCaps, Scopes: []string{"media.write"},
			Profiles: []Profile{ProfileWrite, ProfileAdmin, ProfileUtilityWrite},
			InputSchema: schema(map[string]interface{}{
				"data_base64": strField("base64-encoded media bytes"),
				"kind":        strField("jpeg|png|webp|gif|mp4"),
			}, "data_base64", "kind"),
			Handler: handleUploadMedia,
		},

		// Delete — always requires approval under policy; handler just dispatches.
		{
			Name: "delete_tweet", Category: CategoryDelete, Lane: LaneShared, Mutates: true,
			Capabilities: writeCaps, Scopes: []string{"tweet.write"},
			Profiles:    []Profile{ProfileWrite, ProfileAdmin, ProfileUtilityWrite},
			InputSchema: schema(map[string]interface{}{"tweet_id": strField("tweet id")}, "tweet_id"),
			Handler:     handleDeleteTweet,
		},

		// Admin — universal raw request, Admin profile only.
		{
			Name: "x_get", Category: CategoryRead, Lane: LaneShared,
			Capabilities: readCaps, Scopes: []string{"tweet.read"},
			Profiles: []Profile{ProfileAdmin},
			InputSchema: schema(map[string]interface{}{
				"url": strField("full API URL"), "query": schema(nil), "headers": schema(nil),
			}, "url"),
			Handler: rawRequestHandler("GET"),
		},
		{
			Name: "x_post", Category: CategoryWrite, Lane: LaneShared, Mutates: true,
			Capabilities: writeCaps, Scopes: []string{"tweet.write"},
			Profiles: []Profile{ProfileAdmin},
			InputSchema: schema(map[string]interface{}{
				"url": strField("full API URL"), "body": strField("request body, base64"),
				"query": schema(nil), "headers": schema(nil),
			}, "url"),
			Handler: rawRequestHandler("POST"),
		},
		{
			Name: "x_put", Category: CategoryWrite, Lane: LaneShared, Mutates: true,
			Capabilities: writeCaps, Scopes: []string{"tweet.write"},
			Profiles: []Profile{ProfileAdmin},
			InputSchema: schema(map[string]interface{}{
				"url": strField("full API URL"), "body": strField("request body, base64"),
				"query": schema(nil), "headers": schema(nil),
			}, "url"),
			Handler: rawRequestHandler("PUT"),
		},
		{
			Name: "x_delete", Category: CategoryDelete, Lane: LaneShared, Mutates: true,
			Capabilities: writeCaps, Scopes: []string{"tweet.write"},
			Profiles: []Profile{ProfileAdmin},
			InputSchema: schema(map[string]interface{}{
				"url": strField("full API URL"), "query": schema(nil), "headers": schema(nil),
			}, "url"),
			Handler: rawRequestHandler("DELETE"),
		},

		// Workflow lane — composed operations, Write/Admin only (these
		// need Store+LLM, so Readonly/ApiReadonly/Utility profiles never
		// carry them).
		{
			Name: "orchestrate", Category: CategoryWrite, Lane: LaneWorkflow, Mutates: true,
			Capabilities: workflowCaps, Scopes: []string{"tweet.read", "tweet.write"},
			Profiles: []Profile{ProfileWrite, ProfileAdmin},
			InputSchema: schema(map[string]interface{}{
				"query": strField("search query override"), "mention_product": boolField("mention the product by name"),
			}),
			Handler: handleOrchestrate,
		},
		{
			Name: "discover", Category: CategoryRead, Lane: LaneWorkflow,
			Capabilities: workflowCaps, Scopes: []string{"tweet.read"},
			Profiles: []Profile{ProfileWrite, ProfileAdmin},
			InputSchema: schema(map[string]interface{}{
				"query": strField("search query override"), "min_score": map[string]interface{}{"type": "number"},
				"limit": intField("max candidates"), "since_id": strField("cursor"),
			}),
			Handler: handleDiscover,
		},
		{
			Name: "draft_reply", Category: CategoryWrite, Lane: LaneWorkflow,
			Capabilities: workflowCaps, Scopes: []string{"tweet.read"},
			Profiles: []Profile{ProfileWrite, ProfileAdmin},
			InputSchema: schema(map[string]interface{}{
				"candidate_ids": strArrayField("discovered tweet ids"), "archetype": strField("reply archetype"),
				"mention_product": boolField("mention the product by name"),
			}, "candidate_ids"),
			Handler: handleDraftReply,
		},
		{
			Name: "queue_reply", Category: CategoryWrite, Lane: LaneWorkflow, Mutates: true,
			Capabilities: workflowCaps, Scopes: []string{"tweet.write"},
			Profiles: []Profile{ProfileWrite, ProfileAdmin},
			InputSchema: schema(map[string]interface{}{
				"items": map[string]interface{}{"type": "array", "items": schema(map[string]interface{}{
					"tweet_id": strField("target tweet id"), "text": strField("reply text, generated if empty"),
				}, "tweet_id")},
				"mention_product": boolField("mention the product by name"),
			}, "items"),
			Handler: handleQueueReply,
		},
		{
			Name: "publish_tweet", Category: CategoryWrite, Lane: LaneWorkflow, Mutates: true,
			Capabilities: workflowCaps, Scopes: []string{"tweet.write"},
			Profiles: []Profile{ProfileWrite, ProfileAdmin},
			InputSchema: schema(map[string]interface{}{
				"text": strField("tweet text, generated from topic if empty"), "topic": strField("content pillar/topic"),
			}),
			Handler: handlePublishTweet,
		},
		{
			Name: "publish_thread", Category: CategoryWrite, Lane: LaneWorkflow, Mutates: true,
			Capabilities: workflowCaps, Scopes: []string{"tweet.write"},
			Profiles: []Profile{ProfileWrite, ProfileAdmin},
			InputSchema: schema(map[string]interface{}{
				"tweets": strArrayField("tweet texts, generated from topic/structure if empty"),
				"topic":  strField("content pillar/topic"), "structure": strField("thread structure"),
			}),
			Handler: handlePublishThread,
		},
		{
			Name: "thread_plan", Category: CategoryRead, Lane: LaneWorkflow,
			Capabilities: workflowCaps, Scopes: []string{},
			Profiles: []Profile{ProfileWrite, ProfileAdmin},
			InputSchema: schema(map[string]interface{}{
				"topic": strField("content pillar/topic"), "structure": strField("Transformation|Framework|Mistakes|Analysis"),
			}, "topic"),
			Handler: handleThreadPlan,
		},
	}

	return specs
}

// Filter returns the subset of specs whose Profiles include p.
func Filter(specs []ToolSpec, p Profile) []ToolSpec {
	out := make([]ToolSpec, 0, len(specs))
	for _, s := range specs {
		if s.inProfile(p) {
			out = append(out, s)
		}
	}
	return out
}
